package datasets

// Tables
const (
	TableBuurten          = "v1_gebieden_buurten"
	TableWijken           = "v1_gebieden_wijken"
	TableStadsdelen       = "v1_gebieden_stadsdelen"
	TableMeldingen        = "v1_meldingen_meldingen"
	TableContainers       = "v1_huishoudelijkafval_container"
	TableSidconFillLevels = "afval_suppliers_sidcon_filllevels"
	TableWegingen         = "v1_huishoudelijkafval_weging"
)

// Remote collection paths, relative to the API base URL.
const (
	PathBuurten          = "v1/gebieden/buurten/"
	PathWijken           = "v1/gebieden/wijken/"
	PathStadsdelen       = "v1/gebieden/stadsdelen/"
	PathMeldingen        = "v1/meldingen/meldingen/"
	PathContainers       = "v1/huishoudelijkafval/container/"
	PathSidconFillLevels = "afval/suppliers/sidcon/filllevels/"
	PathWegingen         = "v1/huishoudelijkafval/weging/"
)

// Fields the windowed datasets are filtered on.
const (
	FieldDatumMelding          = "datumMelding"
	FieldDatumWeging           = "datumWeging"
	FieldCommunicationDateTime = "communication_date_time"
)

// DefaultWindowDays is how far back windowed datasets are mirrored.
const DefaultWindowDays = 30

// The sidcon API pages with page_size and filters with "__gt".
const (
	SidconPageSizeParam = "page_size"
	SidconPageSize      = 5000
)

// Error messages
const (
	ErrMsgDecodeRecord  = "failed to decode remote record"
	ErrMsgCreateDataset = "failed to create dataset"
)
