package wardlib

import "testing"

func openTestPermissions(t *testing.T) *PermissionStore {
	t.Helper()
	p, err := OpenPermissionStore()
	if err != nil {
		t.Fatalf("OpenPermissionStore: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestIsBlocking(t *testing.T) {
	tests := []struct {
		action  Action
		allowed []Category
		want    bool
	}{
		{ActionBlock, nil, true},
		{ActionBlock, []Category{CategoryEmail}, true},
		{ActionAllow, nil, false},
		{ActionCustom, nil, true},
		{ActionCustom, []Category{}, true},
		{ActionCustom, []Category{CategoryPreferences}, false},
	}
	for _, tt := range tests {
		if got := IsBlocking(tt.action, tt.allowed); got != tt.want {
			t.Errorf("IsBlocking(%s, %v) = %v, want %v", tt.action, tt.allowed, got, tt.want)
		}
	}
}

func TestSetPermissionDerivesBlocked(t *testing.T) {
	useTestConfigDir(t)
	p := openTestPermissions(t)

	tests := []struct {
		name    string
		action  Action
		allowed []Category
	}{
		{"block", ActionBlock, nil},
		{"allow", ActionAllow, nil},
		{"custom empty", ActionCustom, nil},
		{"custom nonempty", ActionCustom, []Category{CategorySession}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm, err := p.SetPermission("c", "example.com", tt.action, tt.allowed)
			if err != nil {
				t.Fatalf("SetPermission: %v", err)
			}
			if perm.Blocked != IsBlocking(tt.action, tt.allowed) {
				t.Errorf("blocked = %v diverges from IsBlocking(%s, %v)",
					perm.Blocked, tt.action, tt.allowed)
			}
			if perm.UpdatedAt == 0 {
				t.Error("updatedAt not stamped")
			}
		})
	}
}

func TestSetPermissionInvalidAction(t *testing.T) {
	useTestConfigDir(t)
	p := openTestPermissions(t)

	if _, err := p.SetPermission("c", "example.com", Action("delete"), nil); err != ErrInvalidAction {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestRemovePermission(t *testing.T) {
	useTestConfigDir(t)
	p := openTestPermissions(t)

	if _, err := p.SetPermission("uid", ".Ads.example.com", ActionBlock, nil); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}
	// lookup normalizes the domain the same way the write did
	if p.GetPermission("uid", "ads.example.com") == nil {
		t.Fatal("permission not found under normalized domain")
	}
	if err := p.RemovePermission("uid", "ads.example.com"); err != nil {
		t.Fatalf("RemovePermission: %v", err)
	}
	if p.GetPermission("uid", "ads.example.com") != nil {
		t.Fatal("permission still present after removal")
	}
	if err := p.RemovePermission("uid", "ads.example.com"); err != ErrPermissionNotFound {
		t.Fatalf("second removal err = %v, want ErrPermissionNotFound", err)
	}
}

func TestSettingsBesidePermissions(t *testing.T) {
	useTestConfigDir(t)
	p := openTestPermissions(t)

	p.SetSetting(SettingAutoBlockHigh, "true")
	if !p.AutoBlockHigh() {
		t.Fatal("auto-block setting not readable")
	}
	if _, err := p.SetPermission("sid", "example.com", ActionAllow, nil); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}
	if len(p.Permissions()) != 1 {
		t.Fatalf("permissions map leaked settings: %v", p.Permissions())
	}
	if len(p.Settings()) != 1 {
		t.Fatalf("settings map leaked permissions: %v", p.Settings())
	}
}

func TestPermissionPersistence(t *testing.T) {
	useTestConfigDir(t)

	p, err := OpenPermissionStore()
	if err != nil {
		t.Fatalf("OpenPermissionStore: %v", err)
	}
	if _, err := p.SetPermission("_fbp", "tracker.net", ActionBlock, nil); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}
	p.SetSetting(SettingExplainProvider, "local")
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openTestPermissions(t)
	perm := reopened.GetPermission("_fbp", "tracker.net")
	if perm == nil || !perm.Blocked {
		t.Fatalf("permission lost across reopen: %+v", perm)
	}
	if v, ok := reopened.Setting(SettingExplainProvider); !ok || v != "local" {
		t.Fatalf("setting lost across reopen: %q, %v", v, ok)
	}
}
