// Package dashboard holds the tab catalog of the signed-in shell and the
// currently selected tab.
package dashboard

import (
	"errors"
	"fmt"
	"sync"
)

type TabID string

const (
	TabSkills      TabID = "skills"
	TabCareers     TabID = "careers"
	TabLearning    TabID = "learning"
	TabResume      TabID = "resume"
	TabInterviews  TabID = "interviews"
	TabTrends      TabID = "trends"
	TabJobs        TabID = "jobs"
	TabMarketIntel TabID = "market-intel"
	TabProfile     TabID = "profile"

	DefaultTab = TabSkills
)

type Tab struct {
	ID    TabID  `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var tabs = []Tab{
	{ID: TabSkills, Label: "Skills Mapping", Icon: "target"},
	{ID: TabCareers, Label: "Career Paths", Icon: "map"},
	{ID: TabLearning, Label: "Learning Plan", Icon: "book"},
	{ID: TabResume, Label: "Resume Builder", Icon: "file"},
	{ID: TabInterviews, Label: "Mock Interviews", Icon: "mic"},
	{ID: TabTrends, Label: "Demand Trends", Icon: "chart"},
	{ID: TabJobs, Label: "Job Matching", Icon: "briefcase"},
	{ID: TabMarketIntel, Label: "Market Intelligence", Icon: "globe"},
	{ID: TabProfile, Label: "Profile", Icon: "user"},
}

var ErrUnknownTab = errors.New("unknown tab")

// Tabs returns the tab catalog in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabs...)
}

func Lookup(id TabID) (Tab, bool) {
	for _, t := range tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// Store persists the active tab between requests.
type Store interface {
	LoadTab() (TabID, bool)
	SaveTab(TabID) error
}

// Shell tracks which tab is active. Exactly one tab is active at a time.
type Shell struct {
	mu     sync.Mutex
	active TabID
	store  Store
}

// NewShell restores the active tab from store, falling back to the default
// when nothing valid was saved. A nil store keeps the selection in memory.
func NewShell(store Store) *Shell {
	s := &Shell{active: DefaultTab, store: store}
	if store != nil {
		if id, ok := store.LoadTab(); ok {
			if _, known := Lookup(id); known {
				s.active = id
			}
		}
	}
	return s
}

func (s *Shell) Active() TabID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Shell) SetActive(id TabID) error {
	if _, ok := Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTab, id)
	}
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.SaveTab(id); err != nil {
			return fmt.Errorf("save tab: %w", err)
		}
	}
	return nil
}

func (s *Shell) IsActive(id TabID) bool {
	return s.Active() == id
}

// View pairs each tab with its active flag for rendering.
type View struct {
	Tab
	Active bool
}

func (s *Shell) Views() []View {
	active := s.Active()
	out := make([]View, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, View{Tab: t, Active: t.ID == active})
	}
	return out
}
