package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Organization string             `yaml:"organization"`
	Users        []UserFixture      `yaml:"users"`
	Subjects     []SubjectFixture   `yaml:"subjects"`
	Labs         []LabFixture       `yaml:"labs"`
	Batches      []string           `yaml:"batches"`
	Rooms        []RoomFixture      `yaml:"rooms"`
	Groups       []GroupFixture     `yaml:"groups"`
	Timetables   []TimetableFixture `yaml:"timetables"`
}

// UserFixture one account; Role defaults to student.
type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SubjectFixture one subject
type SubjectFixture struct {
	Name         string `yaml:"name"`
	Abbreviation string `yaml:"abbreviation"`
	Code         string `yaml:"code"`
}

// LabFixture one lab
type LabFixture struct {
	Name         string `yaml:"name"`
	Abbreviation string `yaml:"abbreviation"`
}

// RoomFixture one room
type RoomFixture struct {
	Name     string `yaml:"name"`
	Building string `yaml:"building"`
	Capacity int    `yaml:"capacity"`
}

// GroupFixture a group; members are user emails.
type GroupFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

// TimetableFixture a timetable; groups are group names.
type TimetableFixture struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Groups      []string      `yaml:"groups"`
	Slots       []SlotFixture `yaml:"slots"`
}

// SlotFixture one slot. Subject and lab are matched by name or
// abbreviation, faculty by email, batch by name.
type SlotFixture struct {
	Day     string `yaml:"day"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Type    string `yaml:"type"`
	Title   string `yaml:"title"`
	Subject string `yaml:"subject"`
	Lab     string `yaml:"lab"`
	Batch   string `yaml:"batch"`
	Faculty string `yaml:"faculty"`
	Room    string `yaml:"room"`
}

// LoadFixture reads and validates a seed file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	if err := fx.Validate(); err != nil {
		return nil, fmt.Errorf("validate fixture: %w", err)
	}
	return &fx, nil
}

// Validate checks the fixture before anything is written.
func (f *Fixture) Validate() error {
	if strings.TrimSpace(f.Organization) == "" {
		return fmt.Errorf("organization is required")
	}

	emails := make(map[string]bool, len(f.Users))
	admins := 0
	for i := range f.Users {
		u := &f.Users[i]
		u.Email = strings.ToLower(strings.TrimSpace(u.Email))
		if u.Role == "" {
			u.Role = model.RoleStudent
		}
		switch {
		case u.Name == "" || u.Email == "":
			return fmt.Errorf("users[%d]: name and email are required", i)
		case len(u.Password) < 8:
			return fmt.Errorf("users[%d]: password must be at least 8 characters", i)
		case u.Role != model.RoleAdmin && u.Role != model.RoleFaculty && u.Role != model.RoleStudent:
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		case emails[u.Email]:
			return fmt.Errorf("users[%d]: duplicate email %s", i, u.Email)
		}
		emails[u.Email] = true
		if u.Role == model.RoleAdmin {
			admins++
		}
	}
	if admins == 0 {
		return fmt.Errorf("at least one admin user is required")
	}

	groups := make(map[string]bool, len(f.Groups))
	for i, g := range f.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d]: name is required", i)
		}
		for _, m := range g.Members {
			if !emails[strings.ToLower(m)] {
				return fmt.Errorf("groups[%d]: unknown member %s", i, m)
			}
		}
		groups[g.Name] = true
	}

	for i, tt := range f.Timetables {
		if tt.Name == "" {
			return fmt.Errorf("timetables[%d]: name is required", i)
		}
		for _, g := range tt.Groups {
			if !groups[g] {
				return fmt.Errorf("timetables[%d]: unknown group %s", i, g)
			}
		}
		for j, s := range tt.Slots {
			switch {
			case !model.IsValidDay(s.Day):
				return fmt.Errorf("timetables[%d].slots[%d]: invalid day %q", i, j, s.Day)
			case !timetable.ValidClock(s.Start) || !timetable.ValidClock(s.End):
				return fmt.Errorf("timetables[%d].slots[%d]: times must be HH:MM", i, j)
			case timetable.Minutes(s.End) <= timetable.Minutes(s.Start):
				return fmt.Errorf("timetables[%d].slots[%d]: end must be after start", i, j)
			case !model.IsValidSlotType(s.Type):
				return fmt.Errorf("timetables[%d].slots[%d]: invalid type %q", i, j, s.Type)
			}
		}
	}
	return nil
}

// index maps fixture names to the ids assigned on insert.
type index struct {
	subjects map[string]string // name or abbreviation → id
	labs     map[string]string
	batches  map[string]string
	users    map[string]string // email → id
	groups   map[string]string
	lookups  timetable.Lookups
}

func newIndex() *index {
	return &index{
		subjects: map[string]string{},
		labs:     map[string]string{},
		batches:  map[string]string{},
		users:    map[string]string{},
		groups:   map[string]string{},
		lookups: timetable.Lookups{
			Subjects:     map[string]timetable.Ref{},
			Labs:         map[string]timetable.Ref{},
			Batches:      map[string]timetable.Ref{},
			FacultyUsers: map[string]timetable.Ref{},
		},
	}
}

func ref(m map[string]string, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("unknown reference %q", name)
	}
	return &id, nil
}

// buildSlots turns fixture slots into resolved slots in canonical order.
func buildSlots(in []SlotFixture, idx *index) ([]model.Slot, error) {
	slots := make([]model.Slot, 0, len(in))
	for i, f := range in {
		s := model.Slot{
			DayOfWeek: f.Day,
			StartTime: f.Start,
			EndTime:   f.End,
			Type:      f.Type,
			Title:     f.Title,
			Room:      f.Room,
		}
		var err error
		if s.SubjectID, err = ref(idx.subjects, f.Subject); err != nil {
			return nil, fmt.Errorf("slots[%d]: subject: %w", i, err)
		}
		if s.LabID, err = ref(idx.labs, f.Lab); err != nil {
			return nil, fmt.Errorf("slots[%d]: lab: %w", i, err)
		}
		if s.BatchID, err = ref(idx.batches, f.Batch); err != nil {
			return nil, fmt.Errorf("slots[%d]: batch: %w", i, err)
		}
		if s.FacultyUserID, err = ref(idx.users, strings.ToLower(f.Faculty)); err != nil {
			return nil, fmt.Errorf("slots[%d]: faculty: %w", i, err)
		}
		slots = append(slots, s)
	}

	slots = timetable.Canonicalize(timetable.ResolveAll(slots, idx.lookups))
	for _, s := range slots {
		if model.TitleRequired(s.Type) && s.Title == "" {
			return nil, fmt.Errorf("%s %s %s: title is required", s.DayOfWeek, s.StartTime, s.Type)
		}
	}
	return slots, nil
}
