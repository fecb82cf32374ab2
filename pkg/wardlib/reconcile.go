package wardlib

import "sort"

// DisplayStatus is the presentation state of a reconciled view entry.
type DisplayStatus string

const (
	// DisplayActive means the cookie is live in the browser store.
	DisplayActive DisplayStatus = "active"
	// DisplayBlocked means a blocking permission stands and the cookie is
	// not live.
	DisplayBlocked DisplayStatus = "blocked"
	// DisplayUnblockedPending means the user lifted a blocking permission
	// but the page has not re-set the cookie yet.
	DisplayUnblockedPending DisplayStatus = "unblocked_pending"
	// DisplayRemoved means the cookie vanished from the browser without a
	// blocking permission.
	DisplayRemoved DisplayStatus = "removed"
)

// displayRank orders display states for presentation.
var displayRank = map[DisplayStatus]int{
	DisplayActive:           0,
	DisplayBlocked:          1,
	DisplayUnblockedPending: 2,
	DisplayRemoved:          3,
}

// ViewEntry is one cookie identity in the reconciled view.
type ViewEntry struct {
	Cookie     Cookie        `json:"cookie"`
	Categories []Category    `json:"categories,omitempty"`
	Score      int           `json:"risk_score"`
	Level      RiskLevel     `json:"risk_level"`
	Status     DisplayStatus `json:"status"`
	Live       bool          `json:"live"`
	FirstSeen  int64         `json:"first_seen,omitempty"`
	LastSeen   int64         `json:"last_seen,omitempty"`
	Permission *Permission   `json:"permission,omitempty"`
}

// Stats are the aggregate counts over a reconciled view. Suspicious,
// blocked and allowed are independent subsets of total and may overlap.
type Stats struct {
	Total      int `json:"total"`
	Suspicious int `json:"suspicious"`
	Blocked    int `json:"blocked"`
	Allowed    int `json:"allowed"`
}

// View is the authoritative merged picture of every cookie identity known
// for a website: live browser cookies, history entries and permissions.
type View struct {
	Website string       `json:"website"`
	Entries []*ViewEntry `json:"cookies"`
	Stats   Stats        `json:"stats"`
}

// Reconcile merges live cookies, history entries related to the website and
// blocking permissions into a deduplicated view. An empty website is the
// whole-store scope: every history entry and blocking permission is in view.
// Live data wins over history for shared keys; each (name, domain) key
// appears exactly once. The result is sorted by display state, then risk
// score descending, then key, so equal inputs always produce the same output.
func Reconcile(live []*Cookie, website string, ledger *Ledger, perms *PermissionStore, sctx ScoreContext) *View {
	merged := make(map[string]*ViewEntry)
	order := make([]string, 0, len(live))

	for _, c := range live {
		key := c.Key()
		if _, ok := merged[key]; ok {
			continue
		}
		cats := Classify(c.Name, c.Value)
		score := Score(c, cats, sctx)
		merged[key] = &ViewEntry{
			Cookie:     *c,
			Categories: cats,
			Score:      score,
			Level:      LevelFor(score),
			Live:       true,
		}
		order = append(order, key)
	}

	if ledger != nil {
		for _, e := range ledger.EntriesForSite(website) {
			key := e.Cookie.Key()
			if _, ok := merged[key]; ok {
				ve := merged[key]
				ve.FirstSeen = e.FirstSeen
				ve.LastSeen = e.LastSeen
				continue
			}
			merged[key] = &ViewEntry{
				Cookie:     e.Cookie,
				Categories: e.Categories,
				Score:      e.Score,
				Level:      e.Level,
				FirstSeen:  e.FirstSeen,
				LastSeen:   e.LastSeen,
			}
			order = append(order, key)
		}
	}

	var permMap map[string]*Permission
	if perms != nil {
		permMap = perms.Permissions()
		// Blocking permissions with neither a live cookie nor a related
		// history entry still count toward the view: the user blocked a
		// cookie and it stays visible as blocked.
		for _, p := range permMap {
			if !p.Blocked {
				continue
			}
			if website != "" && !RelatedDomains(p.Domain, website) {
				continue
			}
			c := Cookie{Name: p.Name, Domain: p.Domain}
			key := c.Key()
			if _, ok := merged[key]; ok {
				continue
			}
			cats := Classify(p.Name, "")
			score := Score(&c, cats, sctx)
			merged[key] = &ViewEntry{
				Cookie:     c,
				Categories: cats,
				Score:      score,
				Level:      LevelFor(score),
			}
			order = append(order, key)
		}
	}

	view := &View{Website: website, Entries: make([]*ViewEntry, 0, len(merged))}
	for _, key := range order {
		ve := merged[key]
		var perm *Permission
		if permMap != nil {
			perm = permMap[PermissionKey(ve.Cookie.Name, ve.Cookie.Domain)]
		}
		ve.Permission = perm

		var histStatus Status
		if ledger != nil {
			if e := ledger.Entry(key); e != nil {
				histStatus = e.Status
			}
		}
		ve.Status = displayStatus(ve.Live, perm, histStatus)
		view.Entries = append(view.Entries, ve)
	}

	sort.SliceStable(view.Entries, func(i, j int) bool {
		a, b := view.Entries[i], view.Entries[j]
		if displayRank[a.Status] != displayRank[b.Status] {
			return displayRank[a.Status] < displayRank[b.Status]
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Cookie.Key() < b.Cookie.Key()
	})

	view.Stats = computeStats(view.Entries)
	return view
}

// displayStatus derives the presentation state of one entry. A live cookie
// with a simultaneous blocking permission is a transient race; it shows as
// active until the next enforcement pass removes it.
func displayStatus(live bool, perm *Permission, histStatus Status) DisplayStatus {
	if live {
		return DisplayActive
	}
	if perm != nil && perm.Blocked {
		return DisplayBlocked
	}
	if histStatus == StatusRemoved {
		return DisplayRemoved
	}
	return DisplayUnblockedPending
}

func computeStats(entries []*ViewEntry) Stats {
	s := Stats{Total: len(entries)}
	for _, ve := range entries {
		if Suspicious(ve.Score) {
			s.Suspicious++
		}
		if p := ve.Permission; p != nil {
			if p.Blocked {
				s.Blocked++
			}
			if p.Action == ActionAllow || (p.Action == ActionCustom && len(p.AllowedCategories) > 0) {
				s.Allowed++
			}
		}
	}
	return s
}
