package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
)

// seeder inserts a validated fixture inside one transaction.
type seeder struct {
	repo   *repository.Repository
	cost   int
	logger *zap.Logger
}

// Run writes the whole fixture and returns the new organization id.
func (s *seeder) Run(ctx context.Context, fx *Fixture) (string, error) {
	var orgID string
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. organization
		org := &model.Organization{Name: fx.Organization}
		if err := tx.Organization.Create(ctx, org); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		orgID = org.OrganizationID
		idx := newIndex()

		// 2. users
		for _, u := range fx.Users {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			user := &model.User{OrganizationID: orgID, Name: u.Name, Email: u.Email, PasswordHash: string(hash), Role: u.Role}
			if err := tx.User.Create(ctx, user); err != nil {
				return fmt.Errorf("create user %s: %w", u.Email, err)
			}
			idx.users[u.Email] = user.UserID
			if u.Role == model.RoleFaculty {
				idx.lookups.FacultyUsers[user.UserID] = timetable.Ref{Name: user.Name}
			}
		}

		// 3. lookup collections
		for _, f := range fx.Subjects {
			sub := &model.Subject{OrganizationID: orgID, Name: f.Name, Abbreviation: f.Abbreviation, Code: f.Code}
			if err := tx.Subject.Create(ctx, sub); err != nil {
				return fmt.Errorf("create subject %s: %w", f.Name, err)
			}
			idx.subjects[f.Name] = sub.SubjectID
			if f.Abbreviation != "" {
				idx.subjects[f.Abbreviation] = sub.SubjectID
			}
			idx.lookups.Subjects[sub.SubjectID] = timetable.Ref{Name: sub.Name, Abbreviation: sub.Abbreviation}
		}
		for _, f := range fx.Labs {
			lab := &model.Lab{OrganizationID: orgID, Name: f.Name, Abbreviation: f.Abbreviation}
			if err := tx.Lab.Create(ctx, lab); err != nil {
				return fmt.Errorf("create lab %s: %w", f.Name, err)
			}
			idx.labs[f.Name] = lab.LabID
			if f.Abbreviation != "" {
				idx.labs[f.Abbreviation] = lab.LabID
			}
			idx.lookups.Labs[lab.LabID] = timetable.Ref{Name: lab.Name, Abbreviation: lab.Abbreviation}
		}
		for _, name := range fx.Batches {
			b := &model.Batch{OrganizationID: orgID, Name: name}
			if err := tx.Batch.Create(ctx, b); err != nil {
				return fmt.Errorf("create batch %s: %w", name, err)
			}
			idx.batches[name] = b.BatchID
			idx.lookups.Batches[b.BatchID] = timetable.Ref{Name: b.Name}
		}
		for _, f := range fx.Rooms {
			room := &model.Room{OrganizationID: orgID, Name: f.Name, Building: f.Building, Capacity: f.Capacity}
			if err := tx.Room.Create(ctx, room); err != nil {
				return fmt.Errorf("create room %s: %w", f.Name, err)
			}
		}

		// 4. groups
		for _, g := range fx.Groups {
			members := make(model.StringArray, 0, len(g.Members))
			for _, email := range g.Members {
				members = append(members, idx.users[strings.ToLower(email)])
			}
			group := &model.Group{OrganizationID: orgID, Name: g.Name, Description: g.Description, MemberIDs: members}
			if err := tx.Group.Create(ctx, group); err != nil {
				return fmt.Errorf("create group %s: %w", g.Name, err)
			}
			idx.groups[g.Name] = group.GroupID
		}

		// 5. timetables
		for _, f := range fx.Timetables {
			slots, err := buildSlots(f.Slots, idx)
			if err != nil {
				return fmt.Errorf("timetable %s: %w", f.Name, err)
			}
			groups := make(model.StringArray, 0, len(f.Groups))
			for _, g := range f.Groups {
				groups = append(groups, idx.groups[g])
			}
			tt := &model.Timetable{
				OrganizationID: orgID,
				Name:           f.Name,
				Description:    f.Description,
				AssignedGroups: groups,
				Slots:          model.SlotList(slots),
			}
			if err := tx.Timetable.Create(ctx, tt); err != nil {
				return fmt.Errorf("create timetable %s: %w", f.Name, err)
			}
			s.logger.Info("timetable seeded", zap.String("name", f.Name), zap.Int("slots", len(slots)))
		}
		return nil
	})
	return orgID, err
}
