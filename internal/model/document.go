package model

import (
	"strings"
	"time"
)

// Category identifies which required enrollment document a Document represents.
type Category string

const (
	CategoryDiploma          Category = "IJAZAH"
	CategoryBirthCertificate Category = "AKTA"
	CategoryFamilyCard       Category = "KK"
	CategoryFatherID         Category = "KTP_AYAH"
	CategoryMotherID         Category = "KTP_IBU"
	CategoryWelfareCard      Category = "KIP"
	CategoryGraduationLetter Category = "SKL"
	CategoryPhoto            Category = "FOTO"
)

// CategoryInfo pairs a category with its display label.
type CategoryInfo struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
}

// Categories lists every document category in selector order.
var Categories = []CategoryInfo{
	{ID: CategoryDiploma, Label: "Ijazah SD"},
	{ID: CategoryBirthCertificate, Label: "Akta Kelahiran"},
	{ID: CategoryFamilyCard, Label: "Kartu Keluarga"},
	{ID: CategoryFatherID, Label: "KTP Ayah"},
	{ID: CategoryMotherID, Label: "KTP Ibu"},
	{ID: CategoryWelfareCard, Label: "KIP / PKH"},
	{ID: CategoryGraduationLetter, Label: "Surat Ket. Lulus"},
	{ID: CategoryPhoto, Label: "Pas Foto"},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, info := range Categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// Status is the verification state of a document.
// StatusUnsubmitted is never stored; it stands for a missing Document.
type Status string

const (
	StatusUnsubmitted Status = "UNSUBMITTED"
	StatusPending     Status = "PENDING"
	StatusApproved    Status = "APPROVED"
	StatusRevision    Status = "REVISION"
)

// ArtifactKind tells the viewer how to present a document artifact.
type ArtifactKind string

const (
	ArtifactImage ArtifactKind = "IMAGE"
	ArtifactPDF   ArtifactKind = "PDF"
)

// Document is one uploaded verification artifact of a student.
// Only Status and AdminNote are changed by the verification workflow.
type Document struct {
	ID        string       `json:"id"`
	Category  Category     `json:"category"`
	Name      string       `json:"name"`
	Kind      ArtifactKind `json:"type"`
	Location  string       `json:"url"`
	Status    Status       `json:"status"`
	AdminNote string       `json:"adminNote,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// MultiPage reports whether the artifact must be loaded as a paginated document.
func (d *Document) MultiPage() bool {
	return d.Kind == ArtifactPDF || strings.HasSuffix(strings.ToLower(d.Name), ".pdf")
}
