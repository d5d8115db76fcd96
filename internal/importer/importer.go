// Package importer loads a conference schedule from CSV exports of the
// organizer spreadsheet: one file of members, one file of events with
// their speakers. An import replaces all stored data.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"colloquium/backstage/internal/constants"
	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

const timeLayout = "2006-01-02 15:04:05"

// memberRow is one line of the members file:
// email, full name, phone, is_admin.
type memberRow struct {
	Email   string
	SNP     string
	Phone   string
	IsAdmin bool
}

// eventRow is one line of the events file:
// title, speaker emails separated by ";", start, end, venue, description.
type eventRow struct {
	Title    string
	Speakers []string
	Start    time.Time
	End      time.Time
	Venue    string
	VenueDsc string
}

type Importer struct {
	users  *repository.UserRepository
	events *repository.EventRepository
	roles  *repository.RoleRepository
	rsvps  *repository.RSVPRepository
}

func NewImporter(
	users *repository.UserRepository,
	events *repository.EventRepository,
	roles *repository.RoleRepository,
	rsvps *repository.RSVPRepository,
) *Importer {
	return &Importer{users: users, events: events, roles: roles, rsvps: rsvps}
}

// ImportSchedule wipes all stored data and loads the schedule from the
// two CSV files. The first offending row aborts the import; data already
// written before the failure stays, matching the row-at-a-time original
// flow.
func (imp *Importer) ImportSchedule(ctx context.Context, members, events io.Reader) error {
	var (
		memberRows []memberRow
		eventRows  []eventRow
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		memberRows, err = parseMembers(members)
		return err
	})
	g.Go(func() error {
		var err error
		eventRows, err = parseEvents(events)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := imp.wipe(ctx); err != nil {
		return err
	}

	_, err := imp.roles.Add(ctx,
		entities.Role{Value: constants.RoleGuest},
		entities.Role{Value: constants.RoleSpeaker},
	)
	if err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	for _, m := range memberRows {
		_, err := imp.users.Add(ctx, entities.User{
			UID:     m.Email,
			SNP:     m.SNP,
			Phone:   m.Phone,
			IsAdmin: m.IsAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to import member %s: %w", m.Email, err)
		}
	}

	for _, e := range eventRows {
		added, err := imp.events.Add(ctx, entities.Event{
			Title:            e.Title,
			StartTime:        e.Start,
			EndTime:          e.End,
			Venue:            e.Venue,
			VenueDescription: e.VenueDsc,
		})
		if err != nil {
			return fmt.Errorf("failed to import event %q: %w", e.Title, err)
		}
		key := added[0].Key

		for _, speaker := range e.Speakers {
			_, err := imp.rsvps.Add(ctx, entities.RSVPLink{
				UID:  speaker,
				Key:  key,
				Role: constants.RoleSpeaker,
			})
			if err != nil {
				return fmt.Errorf("failed to link speaker %s to %q: %w", speaker, e.Title, err)
			}
		}
	}

	logging.Info("schedule imported", "members", len(memberRows), "events", len(eventRows))
	return nil
}

func (imp *Importer) wipe(ctx context.Context) error {
	if err := imp.rsvps.Delete(ctx, repository.RSVPFilter{}); err != nil {
		return err
	}
	if err := imp.users.Delete(ctx, repository.UserFilter{}); err != nil {
		return err
	}
	if err := imp.events.Delete(ctx, repository.EventFilter{}); err != nil {
		return err
	}
	return imp.roles.Delete(ctx, repository.RoleFilter{})
}

func parseMembers(r io.Reader) ([]memberRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse members file: %w", err)
	}

	rows := make([]memberRow, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("members row %d: expected 4 columns, got %d", i+1, len(record))
		}
		email := strings.TrimSpace(record[0])
		if email == "" {
			break // trailing blank rows
		}
		isAdmin, _ := strconv.ParseBool(strings.TrimSpace(record[3]))
		rows = append(rows, memberRow{
			Email:   email,
			SNP:     strings.TrimSpace(record[1]),
			Phone:   strings.TrimSpace(record[2]),
			IsAdmin: isAdmin,
		})
	}
	return rows, nil
}

func parseEvents(r io.Reader) ([]eventRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse events file: %w", err)
	}

	rows := make([]eventRow, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 6 {
			return nil, fmt.Errorf("events row %d: expected 6 columns, got %d", i+1, len(record))
		}
		title := strings.TrimSpace(record[0])
		if title == "" {
			break // trailing blank rows
		}

		start, err := time.Parse(timeLayout, strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("events row %d: bad start time: %w", i+1, err)
		}
		end, err := time.Parse(timeLayout, strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("events row %d: bad end time: %w", i+1, err)
		}

		var speakers []string
		for _, s := range strings.Split(record[1], ";") {
			if s = strings.TrimSpace(s); s != "" {
				speakers = append(speakers, s)
			}
		}

		rows = append(rows, eventRow{
			Title:    title,
			Speakers: speakers,
			Start:    start,
			End:      end,
			Venue:    strings.TrimSpace(record[4]),
			VenueDsc: strings.TrimSpace(record[5]),
		})
	}
	return rows, nil
}
