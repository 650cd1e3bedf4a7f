package domain

// DocumentKind is the closed set of legal document categories the context
// classifier (C3) can infer from the opening window of a document.
type DocumentKind string

// Document kinds, per §3.
const (
	DocSentenza  DocumentKind = "SENTENZA"
	DocContratto DocumentKind = "CONTRATTO"
	DocAtto      DocumentKind = "ATTO"
	DocVerbale   DocumentKind = "VERBALE"
	DocParere    DocumentKind = "PARERE"
	DocRicorso   DocumentKind = "RICORSO"
	DocCitazione DocumentKind = "CITAZIONE"
	DocUnknown   DocumentKind = "UNKNOWN"
)

// Jurisdiction is the inferred area of law, when the classifier finds an
// explicit token for one.
type Jurisdiction string

// Jurisdictions the classifier can infer.
const (
	JurisdictionCivile        Jurisdiction = "civile"
	JurisdictionPenale        Jurisdiction = "penale"
	JurisdictionAmministrativo Jurisdiction = "amministrativo"
)

// DocumentContext is the advisory output of the context classifier (C3).
// It is attached to result metadata and may influence filtering decisions
// but never on its own causes a span to be dropped.
type DocumentContext struct {
	DocumentKind DocumentKind
	Jurisdiction Jurisdiction // empty when no explicit token was found
	Court        string       // empty when no court name was matched
	Confidence   float64
}
