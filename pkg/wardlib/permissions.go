package wardlib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Action is a user decision on a cookie.
type Action string

const (
	// ActionAllow permits the cookie unconditionally.
	ActionAllow Action = "allow"
	// ActionBlock removes the cookie whenever it appears.
	ActionBlock Action = "block"
	// ActionCustom permits only the listed data categories. An empty
	// allow-list is equivalent to blocking.
	ActionCustom Action = "custom"
)

// ValidAction reports whether a is a known permission action.
func ValidAction(a Action) bool {
	return a == ActionAllow || a == ActionBlock || a == ActionCustom
}

// Permission is a durable user decision for one cookie identity. Blocked is
// always derived from Action and AllowedCategories, never set directly.
type Permission struct {
	Name              string     `json:"cookie_name"`
	Domain            string     `json:"cookie_domain"`
	Action            Action     `json:"action"`
	AllowedCategories []Category `json:"allowed_data_types,omitempty"`
	Blocked           bool       `json:"blocked"`
	UpdatedAt         int64      `json:"updated_at"`
}

// IsBlocking reports whether an action plus category allow-list amounts to
// blocking: an explicit block, or a custom decision allowing nothing.
func IsBlocking(action Action, allowed []Category) bool {
	return action == ActionBlock || (action == ActionCustom && len(allowed) == 0)
}

// PermissionKey returns the store key for a cookie identity.
func PermissionKey(name, domain string) string {
	return "cookie_" + name + "_" + NormalizeDomain(domain)
}

// Settings keys stored beside permissions in the sync-scoped store.
const (
	// SettingAutoBlockHigh enables automatic blocking of high-risk
	// cookies during scans ("true" / "false").
	SettingAutoBlockHigh = "auto_block_high"
	// SettingExplainProvider selects the explanation provider module.
	SettingExplainProvider = "explain_provider"
	// SettingScanSchedule holds the cron expression for scheduled scans.
	SettingScanSchedule = "scan_schedule"
)

// permData is the gob-persisted shape of the permission store file.
type permData struct {
	Permissions map[string]*Permission
	Settings    map[string]string
}

// PermissionStore is the durable store of user cookie decisions and user
// settings: an in-memory map mirrored to disk on every mutation.
type PermissionStore struct {
	data permData
	f    *os.File
	mu   *sync.RWMutex
}

// OpenPermissionStore opens (or creates) the permission store at the
// configured location. A corrupt or empty file starts a fresh store.
func OpenPermissionStore() (p *PermissionStore, err error) {
	p = &PermissionStore{
		data: permData{
			Permissions: make(map[string]*Permission),
			Settings:    make(map[string]string),
		},
		mu: new(sync.RWMutex),
	}
	p.f, err = os.OpenFile(
		__SYNCDATA_FILE_NAME,
		os.O_RDWR|os.O_CREATE,
		DefaultFileMode,
	)
	if err != nil {
		p = nil
		return
	}
	if decErr := gob.NewDecoder(p.f).Decode(&p.data); decErr != nil {
		if decErr != io.EOF {
			log.Printf("wardlib: warning: failed to decode syncdata, starting fresh: %v", decErr)
		}
		p.data = permData{
			Permissions: make(map[string]*Permission),
			Settings:    make(map[string]string),
		}
	}
	if p.data.Permissions == nil {
		p.data.Permissions = make(map[string]*Permission)
	}
	if p.data.Settings == nil {
		p.data.Settings = make(map[string]string)
	}
	return
}

func (p *PermissionStore) persist() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p.data); err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := p.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := p.f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if _, err := p.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (p *PermissionStore) encode() {
	if err := p.persist(); err != nil {
		log.Printf("wardlib: warning: failed to persist syncdata: %v", err)
	}
}

// SetPermission records a user decision for a cookie identity. The write is
// a keyed upsert with last-write-wins semantics and derives Blocked before
// persisting.
func (p *PermissionStore) SetPermission(name, domain string, action Action, allowed []Category) (*Permission, error) {
	if !ValidAction(action) {
		return nil, ErrInvalidAction
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	perm := &Permission{
		Name:              name,
		Domain:            NormalizeDomain(domain),
		Action:            action,
		AllowedCategories: allowed,
		Blocked:           IsBlocking(action, allowed),
		UpdatedAt:         time.Now().UnixMilli(),
	}
	p.data.Permissions[PermissionKey(name, domain)] = perm
	p.encode()
	return perm, nil
}

// GetPermission returns the stored permission for a cookie identity, or nil.
func (p *PermissionStore) GetPermission(name, domain string) *Permission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.Permissions[PermissionKey(name, domain)]
}

// RemovePermission deletes a stored permission. Removing a non-existent
// permission returns ErrPermissionNotFound.
func (p *PermissionStore) RemovePermission(name, domain string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := PermissionKey(name, domain)
	if _, ok := p.data.Permissions[key]; !ok {
		return ErrPermissionNotFound
	}
	delete(p.data.Permissions, key)
	p.encode()
	return nil
}

// Permissions returns a copy of the permission map keyed by store key.
func (p *PermissionStore) Permissions() map[string]*Permission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	perms := make(map[string]*Permission, len(p.data.Permissions))
	for k, v := range p.data.Permissions {
		perms[k] = v
	}
	return perms
}

// Setting returns a user setting value and whether it was set.
func (p *PermissionStore) Setting(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data.Settings[key]
	return v, ok
}

// SetSetting stores a user setting.
func (p *PermissionStore) SetSetting(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Settings[key] = value
	p.encode()
}

// Settings returns a copy of all user settings.
func (p *PermissionStore) Settings() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	settings := make(map[string]string, len(p.data.Settings))
	for k, v := range p.data.Settings {
		settings[k] = v
	}
	return settings
}

// AutoBlockHigh reports whether automatic blocking of high-risk cookies is
// enabled.
func (p *PermissionStore) AutoBlockHigh() bool {
	v, _ := p.Setting(SettingAutoBlockHigh)
	return v == "true"
}

// Flush forces a write of the current state to disk.
func (p *PermissionStore) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persist()
}

// Close persists pending state and closes the underlying file.
func (p *PermissionStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.persist(); err != nil {
		return err
	}
	return p.f.Close()
}
