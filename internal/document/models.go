// Package document tracks metadata for uploaded supporting documents. The
// bytes live in external object storage; the core only cares that a document
// of a given category is present at submission time.
package document

import (
	"time"

	id "covera/pkg/domain"
)

// Category classifies a supporting document for requirement matching.
type Category string

const (
	CategoryIdentity            Category = "identity"
	CategoryHealth              Category = "health"
	CategoryFinancial           Category = "financial"
	CategoryMarriageCertificate Category = "marriage_certificate"
	CategoryBirthCertificate    Category = "birth_certificate"
	CategoryDivorceDecree       Category = "divorce_decree"
	CategoryTrustDocuments      Category = "trust_documents"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryIdentity, CategoryHealth, CategoryFinancial,
		CategoryMarriageCertificate, CategoryBirthCertificate,
		CategoryDivorceDecree, CategoryTrustDocuments:
		return true
	}
	return false
}

// Document is the metadata record for one uploaded file.
type Document struct {
	ID            id.DocumentID
	ApplicationID id.ApplicationID
	Category      Category
	Filename      string
	ObjectKey     string
	SizeBytes     int64
	UploadedAt    time.Time
}
