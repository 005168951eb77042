package fincen

import (
	"encoding/xml"
	"fmt"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/normalize"
)

// fallbackInstitution is used when the record has no institution name.
const fallbackInstitution = "Financial Institution"

// contactName and contactPhone are fixed: the filing contact is always the
// institution's compliance officer and no direct line is published.
const (
	contactName  = "Compliance Officer"
	contactPhone = "0000000000"
)

// Identification type codes. Individuals are always reported with an SSN
// type code and an empty number; the record model carries no SSN and this
// exporter never emits one.
const (
	idTypeSSN = "1"
	idTypeEIN = "2"
)

const legalNameCode = "L"

// Builder assembles Form 8300 batch XML documents. It holds no state;
// sequence numbering is scoped to a single Build call, so concurrent builds
// do not interfere.
type Builder struct{}

// NewBuilder creates a Form 8300 batch builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders one record as a complete EFilingBatchXML document. Missing
// record data never fails a build; the normalizer guarantees fallbacks.
// Errors are internal serialization faults only.
func (b *Builder) Build(rec normalize.Record, recordID string) ([]byte, error) {
	seq := 0
	next := func() int {
		seq++
		return seq
	}

	activity := Activity{
		SeqNum:                         next(),
		FilingDateText:                 rec.FilingDateStamp,
		SuspiciousTransactionIndicator: "Y",
		Association: ActivityAssociation{
			SeqNum:                 next(),
			InitialReportIndicator: "Y",
		},
	}

	activity.Parties = []Party{
		b.receivingBusinessParty(rec, next),
		b.cashProviderParty(rec, next),
		b.transmitterParty(rec, next),
		b.contactParty(rec, next),
	}

	activity.CurrencyActivity = b.currencyActivity(rec, next)
	activity.Narrative = b.narrative(rec, recordID, next)

	batch := Batch{
		Xmlns:         Namespace,
		TotalAmount:   rec.FilingAmountText(),
		PartyCount:    len(activity.Parties),
		ActivityCount: 1,
		Activity:      activity,
	}

	out, err := xml.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}
	return append([]byte(xml.Header), out...), nil
}

// receivingBusinessParty is the institution that received the cash.
func (b *Builder) receivingBusinessParty(rec normalize.Record, next func() int) Party {
	return b.institutionParty(rec, PartyTypeReceivingBusiness, next)
}

// transmitterParty reuses the institution identity: the filer and the
// receiving business are the same entity in this system.
func (b *Builder) transmitterParty(rec normalize.Record, next func() int) Party {
	return b.institutionParty(rec, PartyTypeTransmitter, next)
}

func (b *Builder) institutionParty(rec normalize.Record, typeCode string, next func() int) Party {
	name := rec.InstitutionName
	if name == "" {
		name = fallbackInstitution
	}

	return Party{
		SeqNum:                next(),
		ActivityPartyTypeCode: typeCode,
		Name: PartyName{
			SeqNum:            next(),
			PartyNameTypeCode: legalNameCode,
			RawPartyFullName:  newText(name, defaultTextLimit),
		},
		Address: b.address(next, rec.InstitutionStreet, rec.InstitutionCity, rec.InstitutionState, rec.InstitutionZip),
		Identification: &PartyIdentification{
			SeqNum:                        next(),
			PartyIdentificationNumberText: newText(rec.InstitutionEIN, defaultTextLimit),
			PartyIdentificationTypeCode:   idTypeEIN,
		},
	}
}

// cashProviderParty is the individual who provided the cash.
func (b *Builder) cashProviderParty(rec normalize.Record, next func() int) Party {
	lastName := rec.SuspectLastName
	if lastName == "" {
		lastName = rec.SuspectEntityName
	}
	if lastName == "" {
		lastName = normalize.UnknownName
	}

	party := Party{
		SeqNum:                next(),
		ActivityPartyTypeCode: PartyTypeCashProvider,
		Name: PartyName{
			SeqNum:                      next(),
			PartyNameTypeCode:           legalNameCode,
			RawEntityIndividualLastName: newText(lastName, defaultTextLimit),
		},
	}
	if rec.SuspectFirstName != "" {
		party.Name.RawIndividualFirstName = newText(rec.SuspectFirstName, defaultTextLimit)
	}

	party.Address = b.address(next, rec.SuspectStreet, rec.SuspectCity, rec.SuspectState, rec.SuspectZip)
	if rec.SuspectPhone != "" {
		party.Phone = &PhoneNumber{
			SeqNum:          next(),
			PhoneNumberText: newText(rec.SuspectPhone, defaultTextLimit),
		}
	}
	party.Identification = &PartyIdentification{
		SeqNum:                        next(),
		PartyIdentificationNumberText: &Text{},
		PartyIdentificationTypeCode:   idTypeSSN,
	}

	return party
}

// contactParty is the fixed compliance contact at the institution.
func (b *Builder) contactParty(rec normalize.Record, next func() int) Party {
	return Party{
		SeqNum:                next(),
		ActivityPartyTypeCode: PartyTypeContact,
		Name: PartyName{
			SeqNum:            next(),
			PartyNameTypeCode: legalNameCode,
			RawPartyFullName:  newText(contactName, defaultTextLimit),
		},
		Address: b.address(next, rec.InstitutionStreet, rec.InstitutionCity, rec.InstitutionState, rec.InstitutionZip),
		Phone: &PhoneNumber{
			SeqNum:          next(),
			PhoneNumberText: newText(contactPhone, defaultTextLimit),
		},
	}
}

// address always emits an Address element; empty components are omitted
// inside it.
func (b *Builder) address(next func() int, street, city, state, zip string) *Address {
	addr := &Address{SeqNum: next()}
	if street != "" {
		addr.RawStreetAddress1Text = newText(street, addressTextLimit)
	}
	if city != "" {
		addr.RawCityText = newText(city, defaultTextLimit)
	}
	if state != "" {
		addr.RawStateCodeText = newText(state, defaultTextLimit)
	}
	if zip != "" {
		addr.RawZIPCode = newText(zip, defaultTextLimit)
	}
	return addr
}

// currencyActivity reports the cash amount with the two detail entries the
// schema requires: the cash exchange itself and a zero-amount placeholder.
func (b *Builder) currencyActivity(rec normalize.Record, next func() int) CurrencyTransactionActivity {
	amount := rec.FilingAmountText()

	activity := CurrencyTransactionActivity{
		SeqNum:                       next(),
		TotalCashInReceiveAmountText: amount,
		TransactionDateText:          rec.TransactionDateStamp,
	}

	exchange := CurrencyTransactionActivityDetail{
		SeqNum: next(),
		CurrencyTransactionActivityDetailTypeCode: detailTypeCashExchange,
		DetailTransactionAmountText:               amount,
	}
	if rec.ActivityDescription != "" {
		exchange.OtherCurrencyTransactionActivityDetailText = newText(rec.ActivityDescription, longTextLimit)
	}

	placeholder := CurrencyTransactionActivityDetail{
		SeqNum: next(),
		CurrencyTransactionActivityDetailTypeCode: detailTypeOther,
		DetailTransactionAmountText:               "0",
	}

	activity.Details = []CurrencyTransactionActivityDetail{exchange, placeholder}
	return activity
}

// narrative composes the record id and activity description into the single
// free-text block, capped at the narrative limit.
func (b *Builder) narrative(rec normalize.Record, recordID string, next func() int) NarrativeInformation {
	desc := rec.ActivityDescription
	if desc == "" {
		desc = "No activity description provided"
	}
	composed := fmt.Sprintf("Form 8300 filing generated from SAR record %s. Reported activity: %s.", recordID, desc)

	return NarrativeInformation{
		SeqNum:                          next(),
		ActivityNarrativeSequenceNumber: 1,
		ActivityNarrativeText:           newText(composed, longTextLimit),
	}
}
