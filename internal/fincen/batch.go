// Package fincen builds FinCEN Form 8300 batch XML documents from
// normalized SAR records.
package fincen

import "encoding/xml"

// Namespace is the FinCEN e-filing base namespace.
const Namespace = "www.fincen.gov/base"

// Party type codes used by the batch schema.
const (
	PartyTypeReceivingBusiness = "4"
	PartyTypeCashProvider      = "16"
	PartyTypeTransmitter       = "35"
	PartyTypeContact           = "8"
)

// Currency transaction detail type codes.
const (
	detailTypeCashExchange = "55"
	detailTypeOther        = "997"
)

// Text is an element whose character data has already been passed through
// the sanitize pipeline. It is emitted verbatim so the marshaler does not
// escape it a second time.
type Text struct {
	Value string `xml:",innerxml"`
}

func newText(s string, limit int) *Text {
	return &Text{Value: sanitize(s, limit)}
}

// Batch is the EFilingBatchXML document root. It always contains exactly
// one Activity with exactly four parties.
type Batch struct {
	XMLName       xml.Name `xml:"EFilingBatchXML"`
	Xmlns         string   `xml:"xmlns,attr"`
	TotalAmount   string   `xml:"TotalAmount,attr"`
	PartyCount    int      `xml:"PartyCount,attr"`
	ActivityCount int      `xml:"ActivityCount,attr"`
	Activity      Activity `xml:"Activity"`
}

// Activity is a single Form 8300 filing.
type Activity struct {
	SeqNum                         int                         `xml:"SeqNum,attr"`
	FilingDateText                 string                      `xml:"FilingDateText"`
	SuspiciousTransactionIndicator string                      `xml:"SuspiciousTransactionIndicator"`
	Association                    ActivityAssociation         `xml:"ActivityAssociation"`
	Parties                        []Party                     `xml:"Party"`
	CurrencyActivity               CurrencyTransactionActivity `xml:"CurrencyTransactionActivity"`
	Narrative                      NarrativeInformation        `xml:"ActivityNarrativeInformation"`
}

// ActivityAssociation marks the filing as an initial report.
type ActivityAssociation struct {
	SeqNum                 int    `xml:"SeqNum,attr"`
	InitialReportIndicator string `xml:"InitialReportIndicator"`
}

// Party is one participant in the filing, tagged by ActivityPartyTypeCode.
type Party struct {
	SeqNum                int                  `xml:"SeqNum,attr"`
	ActivityPartyTypeCode string               `xml:"ActivityPartyTypeCode"`
	Name                  PartyName            `xml:"PartyName"`
	Address               *Address             `xml:"Address,omitempty"`
	Phone                 *PhoneNumber         `xml:"PhoneNumber,omitempty"`
	Identification        *PartyIdentification `xml:"PartyIdentification,omitempty"`
}

// PartyName carries either a full organization name or an individual's
// last/first name pair.
type PartyName struct {
	SeqNum                      int    `xml:"SeqNum,attr"`
	PartyNameTypeCode           string `xml:"PartyNameTypeCode"`
	RawPartyFullName            *Text  `xml:"RawPartyFullName,omitempty"`
	RawEntityIndividualLastName *Text  `xml:"RawEntityIndividualLastName,omitempty"`
	RawIndividualFirstName      *Text  `xml:"RawIndividualFirstName,omitempty"`
}

// Address is a party street address.
type Address struct {
	SeqNum                int   `xml:"SeqNum,attr"`
	RawStreetAddress1Text *Text `xml:"RawStreetAddress1Text,omitempty"`
	RawCityText           *Text `xml:"RawCityText,omitempty"`
	RawStateCodeText      *Text `xml:"RawStateCodeText,omitempty"`
	RawZIPCode            *Text `xml:"RawZIPCode,omitempty"`
}

// PhoneNumber is a party contact number.
type PhoneNumber struct {
	SeqNum          int   `xml:"SeqNum,attr"`
	PhoneNumberText *Text `xml:"PhoneNumberText,omitempty"`
}

// PartyIdentification identifies a party. For individuals the
// identification type is reported but the number is always left empty;
// SSNs are never emitted.
type PartyIdentification struct {
	SeqNum                        int    `xml:"SeqNum,attr"`
	PartyIdentificationNumberText *Text  `xml:"PartyIdentificationNumberText"`
	PartyIdentificationTypeCode   string `xml:"PartyIdentificationTypeCode"`
}

// CurrencyTransactionActivity reports the cash amount and date. The schema
// requires a minimum of two detail entries.
type CurrencyTransactionActivity struct {
	SeqNum                       int                                 `xml:"SeqNum,attr"`
	TotalCashInReceiveAmountText string                              `xml:"TotalCashInReceiveAmountText"`
	TransactionDateText          string                              `xml:"TransactionDateText"`
	Details                      []CurrencyTransactionActivityDetail `xml:"CurrencyTransactionActivityDetail"`
}

// CurrencyTransactionActivityDetail is one detail line of the cash
// transaction.
type CurrencyTransactionActivityDetail struct {
	SeqNum                                     int    `xml:"SeqNum,attr"`
	CurrencyTransactionActivityDetailTypeCode  string `xml:"CurrencyTransactionActivityDetailTypeCode"`
	DetailTransactionAmountText                string `xml:"DetailTransactionAmountText"`
	OtherCurrencyTransactionActivityDetailText *Text  `xml:"OtherCurrencyTransactionActivityDetailText,omitempty"`
}

// NarrativeInformation is the free-text narrative block.
type NarrativeInformation struct {
	SeqNum                          int   `xml:"SeqNum,attr"`
	ActivityNarrativeSequenceNumber int   `xml:"ActivityNarrativeSequenceNumber"`
	ActivityNarrativeText           *Text `xml:"ActivityNarrativeText"`
}
