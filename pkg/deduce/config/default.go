package config

import (
	"github.com/cognicore/deduce/pkg/deduce/annotate"
	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

// Tags of the built-in annotators.
const (
	TagInstitution   = "instelling"
	TagHospital      = "ziekenhuis"
	TagLocation      = "locatie"
	TagPhone         = "telefoonnummer"
	TagBSN           = "bsn"
	TagPatientNumber = "patientnummer"
	TagDate          = "datum"
	TagAge           = "leeftijd"
	TagURL           = "url"
)

// Priorities of the built-in annotators. Final overlap resolution keeps
// the highest priority, then the longest span.
const (
	PriorityName          = 100
	PriorityInstitution   = 80
	PriorityBSN           = 70
	PriorityPhone         = 60
	PriorityURL           = 60
	PriorityDate          = 50
	PriorityLocation      = 40
	PriorityAge           = 30
	PriorityPatientNumber = 20
)

// Built-in word lists. Larger lists (names, places, institutions) are not
// embedded; they come from dictionary files or the dictionary store.
var (
	defaultPrefixes = []string{
		"dhr", "dr", "drs", "ing", "ir", "mevr", "mr", "mw", "prof",
		"patient", "patiënt",
	}
	defaultInterfixes = []string{
		"'t", "d'", "de", "den", "der", "het", "in", "in 't", "in de", "in den", "in het",
		"op", "op de", "op den", "op het", "op 't", "te", "ten", "ter", "uit", "uit de",
		"uit den", "van", "van de", "van den", "van der", "van het", "van 't", "van ter", "vd",
	}
	defaultWhitelist = []string{
		// function words
		"aan", "al", "als", "bij", "dan", "dat", "de", "den", "der", "die", "dit", "door",
		"een", "en", "er", "geen", "had", "heeft", "het", "hij", "in", "is", "kan", "maar",
		"met", "na", "naar", "niet", "nog", "of", "om", "ook", "op", "over", "te", "tot",
		"uit", "van", "voor", "was", "wel", "werd", "wordt", "zij", "zijn", "ze",
		// clinical vocabulary
		"afdeling", "anamnese", "arts", "assistent", "behandeling", "beleid", "conclusie",
		"controle", "diagnose", "dokter", "echo", "huisarts", "lab", "medicatie", "ontslag",
		"onderzoek", "opname", "patient", "patiënt", "poli", "polikliniek", "specialist",
		"status", "verpleging", "ziekenhuis", "zuster",
		// calendar
		"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus",
		"september", "oktober", "november", "december",
		"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag", "zondag",
	}
)

// Default returns the built-in Dutch clinical configuration.
func Default() *File {
	return &File{
		Tokenizer: TokenizerConfig{
			MergeSets: []string{lexicon.Interfixes},
		},
		Dictionaries: []DictionaryConfig{
			{Name: lexicon.FirstNames, MinLength: 2},
			{Name: lexicon.Surnames, MinLength: 2},
			{Name: lexicon.Interfixes, Items: defaultInterfixes},
			{Name: lexicon.InterfixSurnames},
			{Name: lexicon.Prefixes, Items: defaultPrefixes},
			{Name: lexicon.Whitelist, Items: defaultWhitelist, Matching: []string{"lowercase"}},
			{Name: lexicon.Institutions, Matching: []string{"lowercase"}, Trie: true},
			{Name: lexicon.Hospitals, Matching: []string{"lowercase"}, Trie: true},
			{Name: lexicon.Streets, MinLength: 4, Trie: true},
			{Name: lexicon.Placenames, MinLength: 2, Trie: true},
		},
		Names: NamesConfig{
			Annotators: []AnnotatorConfig{
				{Name: "prefix_with_name", Kind: KindPrefixName, Priority: PriorityName},
				{Name: "interfix_with_name", Kind: KindInterfixName, Priority: PriorityName},
				{Name: "initial_with_capital", Kind: KindInitialCapital, Priority: PriorityName},
				{Name: "initial_interfix", Kind: KindInitialInterfix, Priority: PriorityName},
				{Name: "first_name_lookup", Kind: KindFirstNameLookup, Priority: PriorityName},
				{Name: "surname_lookup", Kind: KindSurnameLookup, Priority: PriorityName},
				{Name: "patient", Kind: KindPatient, Priority: PriorityName},
			},
			Context: []ContextConfig{
				{Kind: ContextInitials},
				{Kind: ContextInterfix},
				{Kind: ContextInitialName},
				{Kind: ContextNexus},
				{Kind: ContextPrefix},
			},
		},
		Annotators: []AnnotatorConfig{
			{Name: "institution", Kind: KindMultiTokenLookup, Tag: TagInstitution, Priority: PriorityInstitution, Dictionary: lexicon.Institutions},
			{Name: "hospital", Kind: KindMultiTokenLookup, Tag: TagHospital, Priority: PriorityInstitution, Dictionary: lexicon.Hospitals},
			{Name: "residence", Kind: KindMultiTokenLookup, Tag: TagLocation, Priority: PriorityLocation, Dictionary: lexicon.Placenames},
			{Name: "street", Kind: KindMultiTokenLookup, Tag: TagLocation, Priority: PriorityLocation, Dictionary: lexicon.Streets},
			{Name: "street_with_number", Kind: KindRegex, Tag: TagLocation, Priority: PriorityLocation,
				Patterns: []string{annotate.StreetPattern}, CaptureGroup: 1},
			{Name: "postal_code", Kind: KindRegex, Tag: TagLocation, Priority: PriorityLocation,
				Patterns: []string{annotate.PostalCodePattern}, CaptureGroup: 1, Filter: "postal_code"},
			{Name: "postbus", Kind: KindRegex, Tag: TagLocation, Priority: PriorityLocation,
				Patterns: []string{annotate.PostbusPattern}, CaptureGroup: 1},
			{Name: "phone", Kind: KindPhone, Tag: TagPhone, Priority: PriorityPhone},
			{Name: "bsn", Kind: KindBSN, Tag: TagBSN, Priority: PriorityBSN},
			{Name: "patient_number", Kind: KindRegex, Tag: TagPatientNumber, Priority: PriorityPatientNumber,
				Patterns: []string{annotate.PatientNumberPattern}},
			{Name: "date_numeric", Kind: KindRegex, Tag: TagDate, Priority: PriorityDate,
				Patterns: []string{annotate.DateNumericPattern}, CaptureGroup: 1},
			{Name: "date_text", Kind: KindRegex, Tag: TagDate, Priority: PriorityDate,
				Patterns: []string{annotate.DateTextPattern}, CaptureGroup: 1},
			{Name: "age", Kind: KindRegex, Tag: TagAge, Priority: PriorityAge,
				Patterns: []string{annotate.AgePattern}, CaptureGroup: 1},
			{Name: "email", Kind: KindRegex, Tag: TagURL, Priority: PriorityURL,
				Patterns: []string{annotate.EmailPattern}},
			{Name: "url", Kind: KindRegex, Tag: TagURL, Priority: PriorityURL,
				Patterns: []string{annotate.URLPattern, annotate.DomainPattern}, CaptureGroup: 1},
		},
	}
}
