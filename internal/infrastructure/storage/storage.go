// Package storage keeps rendered receipt PDFs on local disk or in Google Drive.
package storage

import (
	"context"
	"fmt"
	"strconv"
)

// File describes an uploaded PDF
type File struct {
	ID   string
	URL  string
	Size int64
}

// Storage uploads and removes receipt files
type Storage interface {
	Upload(ctx context.Context, name string, data []byte) (*File, error)
	Delete(ctx context.Context, id string) error
}

// FileName is the stored name of a receipt PDF
func FileName(receiptID int64, receiptNumber string) string {
	return "receipt-" + strconv.FormatInt(receiptID, 10) + "-" + receiptNumber + ".pdf"
}

// New builds the storage selected by driver
func New(ctx context.Context, driver, path, publicURL, folderID, credentialsFile string) (Storage, error) {
	switch driver {
	case "local", "":
		return NewLocalStorage(path, publicURL)
	case "drive":
		return NewDriveStorage(ctx, credentialsFile, folderID)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q (use local or drive)", driver)
	}
}
