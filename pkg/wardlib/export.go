package wardlib

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ExtensionName identifies export documents produced by cookieward.
const ExtensionName = "Cookieward"

// ExportInfo describes the provenance of an export document.
type ExportInfo struct {
	ExtensionName string `json:"extensionName"`
	ExportDate    string `json:"exportDate"`
	Website       string `json:"website"`
	Version       string `json:"version"`
	ExportID      string `json:"exportId"`
}

// ExportDocument is the full JSON export of a website's reconciled view
// together with the user's permissions and settings.
type ExportDocument struct {
	ExportInfo      ExportInfo             `json:"exportInfo"`
	Statistics      Stats                  `json:"statistics"`
	Cookies         []*ViewEntry           `json:"cookies"`
	UserPermissions map[string]*Permission `json:"userPermissions"`
	Settings        map[string]string      `json:"settings"`
}

// BuildExport assembles an export document from a reconciled view and the
// permission store.
func BuildExport(view *View, perms *PermissionStore, version string) *ExportDocument {
	doc := &ExportDocument{
		ExportInfo: ExportInfo{
			ExtensionName: ExtensionName,
			ExportDate:    time.Now().UTC().Format(time.RFC3339),
			Website:       view.Website,
			Version:       version,
			ExportID:      uuid.NewString(),
		},
		Statistics: view.Stats,
		Cookies:    view.Entries,
	}
	if perms != nil {
		doc.UserPermissions = perms.Permissions()
		doc.Settings = perms.Settings()
	}
	return doc
}

// Marshal renders the document as indented JSON.
func (d *ExportDocument) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WriteExport writes the document as indented JSON to a path on the given
// filesystem.
func WriteExport(fsys afero.Fs, path string, doc *ExportDocument) error {
	b, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := afero.WriteFile(fsys, path, b, DefaultFileMode); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
