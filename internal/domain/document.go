package domain

import "strings"

// DocumentKind tags which business collection a budget document lives in.
type DocumentKind string

const (
	KindRAB DocumentKind = "RAB"
	KindBQ  DocumentKind = "BQ"
)

// kindByPrefix maps id namespaces to document kinds.
var kindByPrefix = map[string]DocumentKind{
	"rab-": KindRAB,
	"bq-":  KindBQ,
}

// IDPrefix returns the id namespace for newly created documents of this kind.
func (k DocumentKind) IDPrefix() string {
	switch k {
	case KindRAB:
		return "rab"
	case KindBQ:
		return "bq"
	}
	return ""
}

func (k DocumentKind) Valid() bool {
	return k == KindRAB || k == KindBQ
}

// ParseKind accepts "rab"/"bq" in any case.
func ParseKind(s string) (DocumentKind, bool) {
	k := DocumentKind(strings.ToUpper(s))
	return k, k.Valid()
}

// KindFromID resolves the collection of a document from its id namespace.
func KindFromID(id string) (DocumentKind, bool) {
	for prefix, kind := range kindByPrefix {
		if strings.HasPrefix(id, prefix) {
			return kind, true
		}
	}
	return "", false
}

// AhsComponent is one row of a unit-cost breakdown.
type AhsComponent struct {
	ID            string  `json:"id" validate:"required"`
	ComponentName string  `json:"componentName"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unitPrice"`
	Category      string  `json:"category"`
	Source        string  `json:"source"`
}

type DetailItemType string

const (
	DetailCategory DetailItemType = "category"
	DetailItemRow  DetailItemType = "item"
)

// DetailItem is a category header or a priced line inside a document.
type DetailItem struct {
	ID              string         `json:"id" validate:"required"`
	Type            DetailItemType `json:"type" validate:"oneof=category item"`
	UraianPekerjaan string         `json:"uraianPekerjaan"`
	Volume          float64        `json:"volume"`
	Satuan          string         `json:"satuan"`
	HargaSatuan     float64        `json:"hargaSatuan"`
	Keterangan      string         `json:"keterangan"`
	IsEditing       bool           `json:"isEditing"`
	IsSaved         bool           `json:"isSaved"`
	ItemNumber      string         `json:"itemNumber"`
	Ahs             []AhsComponent `json:"ahs,omitempty" validate:"dive"`
}

// Total is volume times unit price; category rows have no total.
func (d DetailItem) Total() float64 {
	if d.Type != DetailItemRow {
		return 0
	}
	return d.Volume * d.HargaSatuan
}

type Revision struct {
	Revision int          `json:"revision"`
	Date     string       `json:"date"`
	Author   string       `json:"author"`
	Changes  string       `json:"changes"`
	Snapshot []DetailItem `json:"snapshot,omitempty"`
}

type ApprovalRequest struct {
	RequestedBy string `json:"requestedBy"`
	RequestedAt string `json:"requestedAt"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}

// BudgetDocument is shared by the RAB and BQ collections.
type BudgetDocument struct {
	ID                     string           `json:"id" validate:"required"`
	EMPR                   string           `json:"eMPR"`
	ProjectName            string           `json:"projectName"`
	PIC                    string           `json:"pic"`
	SurveyDate             string           `json:"surveyDate"`
	ReceivedDate           string           `json:"receivedDate"`
	FinishDate             string           `json:"finishDate"`
	Status                 string           `json:"status"`
	TenderValue            float64          `json:"tenderValue" validate:"min=0"`
	Keterangan             string           `json:"keterangan"`
	SLA                    int              `json:"sla"`
	PDFReady               bool             `json:"pdfReady"`
	CreatorName            string           `json:"creatorName"`
	ApproverName           string           `json:"approverName"`
	WorkDuration           int              `json:"workDuration" validate:"min=0"`
	RevisionText           string           `json:"revisionText,omitempty"`
	IsLocked               bool             `json:"isLocked"`
	DetailItems            []DetailItem     `json:"detailItems" validate:"dive"`
	RevisionHistory        []Revision       `json:"revisionHistory,omitempty"`
	ApprovalRequestDetails *ApprovalRequest `json:"approvalRequestDetails,omitempty"`
}

// DetailTotal sums every item row.
func (d *BudgetDocument) DetailTotal() float64 {
	var total float64
	for _, item := range d.DetailItems {
		total += item.Total()
	}
	return total
}
