package record

// Field is one labelled input bound to a record path.
type Field struct {
	Label     string `json:"label"`
	Path      string `json:"path"`
	FullWidth bool   `json:"fullWidth"`
}

// Section groups fields under a heading.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Tab is a data sub-tab of the verification screen.
type Tab struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Sections []Section `json:"sections"`
}

const (
	TabPersonal = "DAPO_PRIBADI"
	TabAddress  = "DAPO_ALAMAT"
	TabParents  = "DAPO_ORTU"
	TabWelfare  = "DAPO_KIP"
)

// Tabs is the enrollment ledger layout.
var Tabs = []Tab{
	{
		ID:    TabPersonal,
		Label: "PRIBADI",
		Sections: []Section{
			{Title: "Identitas Peserta Didik", Fields: []Field{
				{Label: "Nama Lengkap", Path: "fullName", FullWidth: true},
				{Label: "NISN", Path: "nisn"},
				{Label: "NIS", Path: "nis"},
				{Label: "Tempat Lahir", Path: "birthPlace", FullWidth: true},
				{Label: "Tanggal Lahir", Path: "birthDate", FullWidth: true},
			}},
			{Title: "Data Akademik", Fields: []Field{
				{Label: "No Seri Ijazah", Path: "diplomaNumber", FullWidth: true},
				{Label: "No Seri SKHUN", Path: "dapodik.skhun", FullWidth: true},
			}},
		},
	},
	{
		ID:    TabAddress,
		Label: "ALAMAT",
		Sections: []Section{
			{Title: "Alamat", Fields: []Field{
				{Label: "Alamat Jalan", Path: "address", FullWidth: true},
				{Label: "RT", Path: "dapodik.rt"},
				{Label: "RW", Path: "dapodik.rw"},
				{Label: "Dusun", Path: "dapodik.dusun"},
				{Label: "Desa/Kel", Path: "dapodik.kelurahan"},
				{Label: "Kecamatan", Path: "subDistrict"},
			}},
		},
	},
	{
		ID:    TabParents,
		Label: "ORTU",
		Sections: []Section{
			{Title: "Ayah", Fields: []Field{
				{Label: "Nama Ayah", Path: "father.name", FullWidth: true},
				{Label: "NIK Ayah", Path: "father.nik"},
			}},
			{Title: "Ibu", Fields: []Field{
				{Label: "Nama Ibu", Path: "mother.name", FullWidth: true},
				{Label: "NIK Ibu", Path: "mother.nik"},
			}},
		},
	},
	{
		ID:    TabWelfare,
		Label: "KIP",
		Sections: []Section{
			{Title: "Kesejahteraan", Fields: []Field{
				{Label: "Penerima KIP", Path: "dapodik.kipReceiver"},
				{Label: "Nomor KIP", Path: "dapodik.kipNumber"},
				{Label: "Nama di KIP", Path: "dapodik.kipName", FullWidth: true},
			}},
		},
	},
}

// FindTab returns the tab with the given id.
func FindTab(id string) (Tab, bool) {
	for _, t := range Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}
