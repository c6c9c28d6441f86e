package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/nibzard/propath/internal/roadmap"
)

// Snapshot versions.
const (
	VersionLegacy  = 1
	CurrentVersion = 2
)

// Snapshot is the persisted document.
type Snapshot struct {
	SchemaVersion int              `json:"schema_version"`
	Courses       []roadmap.Course `json:"courses"`
}

// NewSnapshot captures the courses of a state for saving.
func NewSnapshot(s *roadmap.State) *Snapshot {
	return &Snapshot{SchemaVersion: CurrentVersion, Courses: s.Courses}
}

type legacyCourse struct {
	Name string        `json:"name"`
	Data []legacyPhase `json:"data"`
}

type legacyPhase struct {
	Title     string           `json:"title"`
	Tasks     []string         `json:"tasks"`
	Completed map[string]*bool `json:"completed"`
	Pinned    *bool            `json:"pinned"`
}

// Migrate decodes a validated document of the given version into the
// current snapshot shape. Warnings describe data dropped on the way.
func Migrate(version int, data []byte) (*Snapshot, []string, error) {
	switch version {
	case CurrentVersion:
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, nil, fmt.Errorf("decode v%d snapshot: %w", version, err)
		}
		warnings := normalize(&snap)
		return &snap, warnings, nil
	case VersionLegacy:
		var legacy []legacyCourse
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, nil, fmt.Errorf("decode v%d snapshot: %w", version, err)
		}
		snap, warnings := migrateLegacy(legacy)
		return snap, warnings, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot version %d", version)
	}
}

func migrateLegacy(legacy []legacyCourse) (*Snapshot, []string) {
	var warnings []string
	snap := &Snapshot{SchemaVersion: CurrentVersion, Courses: make([]roadmap.Course, 0, len(legacy))}
	for ci, lc := range legacy {
		course := roadmap.Course{Name: lc.Name, Phases: make([]roadmap.Phase, 0, len(lc.Data))}
		for pi, lp := range lc.Data {
			phase := roadmap.Phase{
				Title:     lp.Title,
				Tasks:     make([]roadmap.Task, 0, len(lp.Tasks)),
				Completed: map[string]bool{},
			}
			if lp.Pinned != nil {
				phase.Pinned = *lp.Pinned
			}
			for _, text := range lp.Tasks {
				phase.Tasks = append(phase.Tasks, roadmap.NewTask(text))
			}

			keys := make([]string, 0, len(lp.Completed))
			for k := range lp.Completed {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				done := lp.Completed[k]
				idx, err := strconv.Atoi(k)
				if err != nil || idx < 0 || idx >= len(phase.Tasks) {
					warnings = append(warnings, fmt.Sprintf("courses[%d].data[%d].completed[%q]: no task at that index, dropped", ci, pi, k))
					continue
				}
				if done != nil {
					phase.Completed[phase.Tasks[idx].ID] = *done
				}
			}
			course.Phases = append(course.Phases, phase)
		}
		snap.Courses = append(snap.Courses, course)
	}
	return snap, warnings
}

// normalize fills in missing collections, gives every task a unique ID,
// and drops completion entries that name no task in their phase.
func normalize(snap *Snapshot) []string {
	var warnings []string
	if snap.Courses == nil {
		snap.Courses = []roadmap.Course{}
	}
	seen := map[string]bool{}
	for ci := range snap.Courses {
		c := &snap.Courses[ci]
		if c.Phases == nil {
			c.Phases = []roadmap.Phase{}
		}
		for pi := range c.Phases {
			p := &c.Phases[pi]
			if p.Tasks == nil {
				p.Tasks = []roadmap.Task{}
			}
			if p.Completed == nil {
				p.Completed = map[string]bool{}
			}

			ids := make(map[string]bool, len(p.Tasks))
			for ti := range p.Tasks {
				t := &p.Tasks[ti]
				if t.ID == "" || seen[t.ID] {
					t.ID = roadmap.NewTask(t.Text).ID
				}
				seen[t.ID] = true
				ids[t.ID] = true
			}

			keys := make([]string, 0, len(p.Completed))
			for k := range p.Completed {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !ids[k] {
					warnings = append(warnings, fmt.Sprintf("courses[%d].phases[%d].completed[%q]: no task with that id, dropped", ci, pi, k))
					delete(p.Completed, k)
				}
			}
		}
	}
	return warnings
}
