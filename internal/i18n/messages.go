// Package i18n holds the kiosk's fixed language tables.
package i18n

// Welcome is one entry of the welcome banner rotation.
type Welcome struct {
	Lang           string `json:"lang"`
	Text           string `json:"text"`
	Locale         string `json:"locale"`
	NoVisitors     string `json:"noVisitors"`
	NoVisitorsDesc string `json:"noVisitorsDesc"`
}

// Welcomes is the welcome banner rotation, one entry per second.
var Welcomes = []Welcome{
	{Lang: "it", Text: "Benvenuto", Locale: "it-IT", NoVisitors: "Nessun visitatore oggi", NoVisitorsDesc: "Non ci sono visitatori registrati per oggi"},
	{Lang: "ro", Text: "Bun venit", Locale: "ro-RO", NoVisitors: "Niciun vizitator astăzi", NoVisitorsDesc: "Nu există vizitatori înregistrați pentru astăzi"},
	{Lang: "de", Text: "Willkommen", Locale: "de-DE", NoVisitors: "Keine Besucher heute", NoVisitorsDesc: "Für heute sind keine Besucher registriert"},
	{Lang: "en", Text: "Welcome", Locale: "en-GB", NoVisitors: "No visitors today", NoVisitorsDesc: "There are no visitors registered for today"},
	{Lang: "sr", Text: "Добродошли", Locale: "sr-RS", NoVisitors: "Нема посетилаца данас", NoVisitorsDesc: "Нема регистрованих посетилаца за данас"},
	{Lang: "hu", Text: "Üdvözöljük", Locale: "hu-HU", NoVisitors: "Ma nincsenek látogatók", NoVisitorsDesc: "Ma nincsenek regisztrált látogatók"},
	{Lang: "es", Text: "Bienvenido", Locale: "es-ES", NoVisitors: "No hay visitantes hoy", NoVisitorsDesc: "No hay visitantes registrados para hoy"},
	{Lang: "pt", Text: "Bem-vindo", Locale: "pt-PT", NoVisitors: "Sem visitantes hoje", NoVisitorsDesc: "Não há visitantes registrados para hoje"},
	{Lang: "gd", Text: "Fàilte", Locale: "en-GB", NoVisitors: "No visitors today", NoVisitorsDesc: "There are no visitors registered for today"},
	{Lang: "fr", Text: "Bienvenue", Locale: "fr-FR", NoVisitors: "Aucun visiteur aujourd'hui", NoVisitorsDesc: "Il n'y a pas de visiteurs enregistrés pour aujourd'hui"},
	{Lang: "sv", Text: "Välkommen", Locale: "sv-SE", NoVisitors: "Inga besökare idag", NoVisitorsDesc: "Det finns inga registrerade besökare för idag"},
	{Lang: "sq", Text: "Mirë se vini", Locale: "sq-AL", NoVisitors: "Asnjë vizitor sot", NoVisitorsDesc: "Nuk ka vizitorë të regjistruar për sot"},
	{Lang: "el", Text: "Καλώς ήρθατε", Locale: "el-GR", NoVisitors: "Κανένας επισκέπτης σήμερα", NoVisitorsDesc: "Δεν υπάρχουν εγγεγραμμένοι επισκέτες για σήμερα"},
}

// RoomWords is one language of the meeting room footer.
type RoomWords struct {
	Free     string `json:"free"`
	Occupied string `json:"occupied"`
	Reason   string `json:"reason"`
	UpTo     string `json:"upTo"`
}

// RoomLanguages rotates every four seconds: Italian, English, Romanian, Swedish.
var RoomLanguages = []RoomWords{
	{Free: "LIBERA", Occupied: "OCCUPATA", Reason: "Motivo", UpTo: "Fino a"},
	{Free: "FREE", Occupied: "OCCUPIED", Reason: "Reason", UpTo: "Up to"},
	{Free: "LIBERĂ", Occupied: "OCUPATĂ", Reason: "Motiv", UpTo: "Până la"},
	{Free: "LEDIG", Occupied: "UPPTAGEN", Reason: "Anledning", UpTo: "Till"},
}

// Picker holds the captions of the pending check-in picker.
type Picker struct {
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Placeholder string `json:"placeholder"`
}

// Pickers follows the welcome rotation modulo its length.
var Pickers = []Picker{
	{Lang: "it", Title: "Check-in Visitatori", Placeholder: "Seleziona un visitatore..."},
	{Lang: "ro", Title: "Check-in Vizitatori", Placeholder: "Selectați un vizitator..."},
	{Lang: "en", Title: "Visitor Check-in", Placeholder: "Select a visitor..."},
}

// Modal holds the captions of the document modal.
type Modal struct {
	Lang          string `json:"lang"`
	Title         string `json:"title"`
	Visitor       string `json:"visitor"`
	Company       string `json:"company"`
	Loading       string `json:"loading"`
	Cancel        string `json:"cancel"`
	Accept        string `json:"accept"`
	WaitMessage   string `json:"waitMessage"`
	ReadyMessage  string `json:"readyMessage"`
	ScrollMessage string `json:"scrollMessage"`
	NoDocument    string `json:"noDocument"`
}

// Modals follows the welcome rotation modulo its length.
var Modals = []Modal{
	{
		Lang:          "it",
		Title:         "Documento Privacy & Sicurezza",
		Visitor:       "Visitatore",
		Company:       "Azienda",
		Loading:       "Caricamento documento...",
		Cancel:        "Annulla",
		Accept:        "Accetto e Procedi",
		WaitMessage:   "Attendi 5 secondi per abilitare il pulsante...",
		ReadyMessage:  "Puoi procedere con l'accettazione",
		ScrollMessage: "Scorri il documento fino alla fine per abilitare il pulsante \"Accetta e Procedi\".",
		NoDocument:    "Nessun documento disponibile",
	},
	{
		Lang:          "ro",
		Title:         "Document Confidențialitate & Securitate",
		Visitor:       "Vizitator",
		Company:       "Companie",
		Loading:       "Se încarcă documentul...",
		Cancel:        "Anulare",
		Accept:        "Accept și Continuă",
		WaitMessage:   "Așteptați 5 secunde pentru a activa butonul...",
		ReadyMessage:  "Puteți continua cu acceptarea",
		ScrollMessage: "Derulați documentul până la sfârșit pentru a activa butonul \"Accept și Continuă\".",
		NoDocument:    "Niciun document disponibil",
	},
	{
		Lang:          "en",
		Title:         "Privacy & Security Document",
		Visitor:       "Visitor",
		Company:       "Company",
		Loading:       "Loading document...",
		Cancel:        "Cancel",
		Accept:        "Accept and Proceed",
		WaitMessage:   "Wait 5 seconds to enable the button...",
		ReadyMessage:  "You can proceed with acceptance",
		ScrollMessage: "Scroll to the end of the document to enable the \"Accept and Proceed\" button.",
		NoDocument:    "No document available",
	},
	{
		Lang:          "sv",
		Title:         "Integritet & Säkerhetsdokument",
		Visitor:       "Besökare",
		Company:       "Företag",
		Loading:       "Laddar dokument...",
		Cancel:        "Avbryt",
		Accept:        "Acceptera och Fortsätt",
		WaitMessage:   "Vänta 5 sekunder för att aktivera knappen...",
		ReadyMessage:  "Du kan fortsätta med acceptans",
		ScrollMessage: "Skrolla till slutet av dokumentet för att aktivera knappen \"Acceptera och Fortsätt\".",
		NoDocument:    "Inget dokument tillgängligt",
	},
}

// WelcomeAt returns the welcome entry for a rotation index, wrapping it.
func WelcomeAt(i int) Welcome { return Welcomes[wrap(i, len(Welcomes))] }

// RoomAt returns the room footer words for a rotation index, wrapping it.
func RoomAt(i int) RoomWords { return RoomLanguages[wrap(i, len(RoomLanguages))] }

// PickerAt returns the picker captions for a welcome index.
func PickerAt(i int) Picker { return Pickers[wrap(i, len(Pickers))] }

// ModalAt returns the modal captions for a welcome index.
func ModalAt(i int) Modal { return Modals[wrap(i, len(Modals))] }

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
