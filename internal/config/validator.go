package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration against its struct tags. The error
// names every offending field.
func Validate(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s (%s=%v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%s: %s", ErrMsgInvalidConfig, strings.Join(problems, ", "))
}

// Warnings reports settings that are valid but probably unintended
func Warnings(cfg *Config) []string {
	var warnings []string
	if cfg.Environment == "prod" && cfg.DBPassword == DefaultDBPassword {
		warnings = append(warnings, "DB_PASSWORD is the default value in production")
	}
	if cfg.Environment == "prod" && cfg.DBSSLMode == "disable" {
		warnings = append(warnings, "DB_SSLMODE is disable in production")
	}
	if cfg.APIRateLimit == 0 {
		warnings = append(warnings, "API_RATE_LIMIT is 0, remote requests are not throttled")
	}
	return warnings
}
