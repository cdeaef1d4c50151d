package datasets

import (
	"github.com/jackc/pgx/v5/pgtype"

	v "github.com/wpk-/aapi-versioned/internal/versioned"
)

// Buurt is a neighbourhood from the gebieden dataset.
type Buurt struct {
	Identificatie   pgtype.Text
	Volgnummer      pgtype.Int4
	Code            pgtype.Text
	Naam            pgtype.Text
	BeginGeldigheid pgtype.Timestamp
	EindGeldigheid  pgtype.Timestamp
	LigtInWijkID    pgtype.Text
	Geometrie       pgtype.Text
}

func (m Buurt) Values() []any {
	return []any{m.Identificatie, m.Volgnummer, m.Code, m.Naam,
		m.BeginGeldigheid, m.EindGeldigheid, m.LigtInWijkID, m.Geometrie}
}

func (m *Buurt) Targets() []any {
	return []any{&m.Identificatie, &m.Volgnummer, &m.Code, &m.Naam,
		&m.BeginGeldigheid, &m.EindGeldigheid, &m.LigtInWijkID, &m.Geometrie}
}

var BuurtSchema = v.Schema{
	Table: TableBuurten,
	Fields: []v.Field{
		{Name: "identificatie", Type: v.Text},
		{Name: "volgnummer", Type: v.Integer},
		{Name: "code", Type: v.Text},
		{Name: "naam", Type: v.Text},
		{Name: "beginGeldigheid", Type: v.Timestamp},
		{Name: "eindGeldigheid", Type: v.Timestamp},
		{Name: "ligtInWijkId", Type: v.Text},
		{Name: "geometrie", Type: v.Geometry},
	},
}

// Wijk is a district from the gebieden dataset.
type Wijk struct {
	Identificatie     pgtype.Text
	Volgnummer        pgtype.Int4
	Code              pgtype.Text
	Naam              pgtype.Text
	BeginGeldigheid   pgtype.Timestamp
	EindGeldigheid    pgtype.Timestamp
	LigtInStadsdeelID pgtype.Text
	Geometrie         pgtype.Text
}

func (m Wijk) Values() []any {
	return []any{m.Identificatie, m.Volgnummer, m.Code, m.Naam,
		m.BeginGeldigheid, m.EindGeldigheid, m.LigtInStadsdeelID, m.Geometrie}
}

func (m *Wijk) Targets() []any {
	return []any{&m.Identificatie, &m.Volgnummer, &m.Code, &m.Naam,
		&m.BeginGeldigheid, &m.EindGeldigheid, &m.LigtInStadsdeelID, &m.Geometrie}
}

var WijkSchema = v.Schema{
	Table: TableWijken,
	Fields: []v.Field{
		{Name: "identificatie", Type: v.Text},
		{Name: "volgnummer", Type: v.Integer},
		{Name: "code", Type: v.Text},
		{Name: "naam", Type: v.Text},
		{Name: "beginGeldigheid", Type: v.Timestamp},
		{Name: "eindGeldigheid", Type: v.Timestamp},
		{Name: "ligtInStadsdeelId", Type: v.Text},
		{Name: "geometrie", Type: v.Geometry},
	},
}

// Stadsdeel is a borough from the gebieden dataset.
type Stadsdeel struct {
	Identificatie   pgtype.Text
	Volgnummer      pgtype.Int4
	Code            pgtype.Text
	Naam            pgtype.Text
	BeginGeldigheid pgtype.Timestamp
	EindGeldigheid  pgtype.Timestamp
	Geometrie       pgtype.Text
}

func (m Stadsdeel) Values() []any {
	return []any{m.Identificatie, m.Volgnummer, m.Code, m.Naam,
		m.BeginGeldigheid, m.EindGeldigheid, m.Geometrie}
}

func (m *Stadsdeel) Targets() []any {
	return []any{&m.Identificatie, &m.Volgnummer, &m.Code, &m.Naam,
		&m.BeginGeldigheid, &m.EindGeldigheid, &m.Geometrie}
}

var StadsdeelSchema = v.Schema{
	Table: TableStadsdelen,
	Fields: []v.Field{
		{Name: "identificatie", Type: v.Text},
		{Name: "volgnummer", Type: v.Integer},
		{Name: "code", Type: v.Text},
		{Name: "naam", Type: v.Text},
		{Name: "beginGeldigheid", Type: v.Timestamp},
		{Name: "eindGeldigheid", Type: v.Timestamp},
		{Name: "geometrie", Type: v.Geometry},
	},
}

// Melding is a public space report.
type Melding struct {
	ID                         pgtype.Text
	Hoofdcategorie             pgtype.Text
	Subcategorie               pgtype.Text
	DatumMelding               pgtype.Date
	TijdstipMelding            pgtype.Time
	DatumOverlast              pgtype.Date
	TijdstipOverlast           pgtype.Time
	MeldingType                pgtype.Text
	MeldingSoort               pgtype.Text
	MeldingsnummerBovenliggend pgtype.Text
	GbdBuurtCode               pgtype.Text
	GbdBuurtNaam               pgtype.Text
	GbdWijkCode                pgtype.Text
	GbdWijkNaam                pgtype.Text
	GbdGgwgebiedCode           pgtype.Text
	GbdGgwgebiedNaam           pgtype.Text
	GbdStadsdeelCode           pgtype.Text
	GbdStadsdeelNaam           pgtype.Text
	BagWoonplaatsNaam          pgtype.Text
	Bron                       pgtype.Text
}

func (m Melding) Values() []any {
	return []any{m.ID, m.Hoofdcategorie, m.Subcategorie,
		m.DatumMelding, m.TijdstipMelding, m.DatumOverlast, m.TijdstipOverlast,
		m.MeldingType, m.MeldingSoort, m.MeldingsnummerBovenliggend,
		m.GbdBuurtCode, m.GbdBuurtNaam, m.GbdWijkCode, m.GbdWijkNaam,
		m.GbdGgwgebiedCode, m.GbdGgwgebiedNaam, m.GbdStadsdeelCode, m.GbdStadsdeelNaam,
		m.BagWoonplaatsNaam, m.Bron}
}

func (m *Melding) Targets() []any {
	return []any{&m.ID, &m.Hoofdcategorie, &m.Subcategorie,
		&m.DatumMelding, &m.TijdstipMelding, &m.DatumOverlast, &m.TijdstipOverlast,
		&m.MeldingType, &m.MeldingSoort, &m.MeldingsnummerBovenliggend,
		&m.GbdBuurtCode, &m.GbdBuurtNaam, &m.GbdWijkCode, &m.GbdWijkNaam,
		&m.GbdGgwgebiedCode, &m.GbdGgwgebiedNaam, &m.GbdStadsdeelCode, &m.GbdStadsdeelNaam,
		&m.BagWoonplaatsNaam, &m.Bron}
}

var MeldingSchema = v.Schema{
	Table: TableMeldingen,
	Fields: []v.Field{
		{Name: "id", Type: v.Text},
		{Name: "hoofdcategorie", Type: v.Text},
		{Name: "subcategorie", Type: v.Text},
		{Name: FieldDatumMelding, Type: v.Date},
		{Name: "tijdstipMelding", Type: v.Time},
		{Name: "datumOverlast", Type: v.Date},
		{Name: "tijdstipOverlast", Type: v.Time},
		{Name: "meldingType", Type: v.Text},
		{Name: "meldingSoort", Type: v.Text},
		{Name: "meldingsnummerBovenliggend", Type: v.Text},
		{Name: "gbdBuurtCode", Type: v.Text},
		{Name: "gbdBuurtNaam", Type: v.Text},
		{Name: "gbdWijkCode", Type: v.Text},
		{Name: "gbdWijkNaam", Type: v.Text},
		{Name: "gbdGgwgebiedCode", Type: v.Text},
		{Name: "gbdGgwgebiedNaam", Type: v.Text},
		{Name: "gbdStadsdeelCode", Type: v.Text},
		{Name: "gbdStadsdeelNaam", Type: v.Text},
		{Name: "bagWoonplaatsNaam", Type: v.Text},
		{Name: "bron", Type: v.Text},
	},
}

// Container is a household waste container.
type Container struct {
	ID                  pgtype.Text
	IDNummer            pgtype.Text
	Serienummer         pgtype.Text
	EigenaarNaam        pgtype.Text
	Status              pgtype.Int4
	FractieOmschrijving pgtype.Text
	DatumCreatie        pgtype.Date
	DatumPlaatsing      pgtype.Date
	DatumOperationeel   pgtype.Date
	VerwijderdDp        pgtype.Bool
	LocatieID           pgtype.Text
	TypeID              pgtype.Text
	Geometrie           pgtype.Text
}

func (m Container) Values() []any {
	return []any{m.ID, m.IDNummer, m.Serienummer, m.EigenaarNaam, m.Status,
		m.FractieOmschrijving, m.DatumCreatie, m.DatumPlaatsing, m.DatumOperationeel,
		m.VerwijderdDp, m.LocatieID, m.TypeID, m.Geometrie}
}

func (m *Container) Targets() []any {
	return []any{&m.ID, &m.IDNummer, &m.Serienummer, &m.EigenaarNaam, &m.Status,
		&m.FractieOmschrijving, &m.DatumCreatie, &m.DatumPlaatsing, &m.DatumOperationeel,
		&m.VerwijderdDp, &m.LocatieID, &m.TypeID, &m.Geometrie}
}

var ContainerSchema = v.Schema{
	Table: TableContainers,
	Fields: []v.Field{
		{Name: "id", Type: v.Text},
		{Name: "idNummer", Type: v.Text},
		{Name: "serienummer", Type: v.Text},
		{Name: "eigenaarNaam", Type: v.Text},
		{Name: "status", Type: v.Integer},
		{Name: "fractieOmschrijving", Type: v.Text},
		{Name: "datumCreatie", Type: v.Date},
		{Name: "datumPlaatsing", Type: v.Date},
		{Name: "datumOperationeel", Type: v.Date},
		{Name: "verwijderdDp", Type: v.Boolean},
		{Name: "locatieId", Type: v.Text},
		{Name: "typeId", Type: v.Text},
		{Name: "geometrie", Type: v.Geometry},
	},
}

// SidconFillLevel is one fill level reading of a container sensor.
type SidconFillLevel struct {
	Filling               pgtype.Int4
	CommunicationDateTime pgtype.Timestamptz
	ContainerID           pgtype.Text
	ShortID               pgtype.Text
}

func (m SidconFillLevel) Values() []any {
	return []any{m.Filling, m.CommunicationDateTime, m.ContainerID, m.ShortID}
}

func (m *SidconFillLevel) Targets() []any {
	return []any{&m.Filling, &m.CommunicationDateTime, &m.ContainerID, &m.ShortID}
}

// The remote reading id is not stored.
var SidconFillLevelSchema = v.Schema{
	Table: TableSidconFillLevels,
	Fields: []v.Field{
		{Name: "filling", Type: v.Integer},
		{Name: FieldCommunicationDateTime, Type: v.TimestampTZ},
		{Name: "container_id", Type: v.Text},
		{Name: "short_id", Type: v.Text},
	},
}

// Weging is one weighing of a collection vehicle load.
type Weging struct {
	ID                  pgtype.Text
	Volgnummer          pgtype.Int4
	ClusterID           pgtype.Text
	Locatie             pgtype.Text
	FractieOmschrijving pgtype.Text
	DatumWeging         pgtype.Date
	TijdstipWeging      pgtype.Time
	Bedrijfsnaam        pgtype.Text
	NettoGewicht        pgtype.Float8
	Geometrie           pgtype.Text
}

func (m Weging) Values() []any {
	return []any{m.ID, m.Volgnummer, m.ClusterID, m.Locatie, m.FractieOmschrijving,
		m.DatumWeging, m.TijdstipWeging, m.Bedrijfsnaam, m.NettoGewicht, m.Geometrie}
}

func (m *Weging) Targets() []any {
	return []any{&m.ID, &m.Volgnummer, &m.ClusterID, &m.Locatie, &m.FractieOmschrijving,
		&m.DatumWeging, &m.TijdstipWeging, &m.Bedrijfsnaam, &m.NettoGewicht, &m.Geometrie}
}

var WegingSchema = v.Schema{
	Table: TableWegingen,
	Fields: []v.Field{
		{Name: "id", Type: v.Text},
		{Name: "volgnummer", Type: v.Integer},
		{Name: "clusterId", Type: v.Text},
		{Name: "locatie", Type: v.Text},
		{Name: "fractieOmschrijving", Type: v.Text},
		{Name: FieldDatumWeging, Type: v.Date},
		{Name: "tijdstipWeging", Type: v.Time},
		{Name: "bedrijfsnaam", Type: v.Text},
		{Name: "nettoGewicht", Type: v.Float},
		{Name: "geometrie", Type: v.Geometry},
	},
}
