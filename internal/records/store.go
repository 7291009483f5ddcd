// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package records implements the disease record and health report
// lifecycle over Badger.
//
// Every operation takes the authenticated subject and authorizes itself
// against the role policy before touching storage. Write operations also
// accept an optional server-side role verification: when present, fresh,
// and bound to the caller, its role is trusted over the session claim,
// which lets a just-promoted health worker act without signing in again.
//
// All mutations run inside Badger read-modify-write transactions, so
// concurrent updates to the same record serialize and the draft to
// registered transition stays one-way.
package records

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/authz"
	"github.com/gramalert/gramalert/internal/identity"
	"github.com/gramalert/gramalert/internal/logging"
	"github.com/gramalert/gramalert/internal/models"
	"github.com/gramalert/gramalert/internal/validation"
)

const (
	reportKeyPrefix = "report:"
	recordKeyPrefix = "record:"

	// verificationMaxAge bounds how old a server-side role verification
	// may be and still outrank the session claim.
	verificationMaxAge = 2 * time.Minute
)

// Store is the authorization-aware facade over report and record
// storage.
type Store struct {
	db     *badger.DB
	policy *authz.Policy
}

// NewStore creates a store over the given database and role policy.
func NewStore(db *badger.DB, policy *authz.Policy) *Store {
	return &Store{db: db, policy: policy}
}

// Policy returns the role policy the store authorizes against.
func (s *Store) Policy() *authz.Policy {
	return s.policy
}

// effectiveRole picks the role all checks in one operation run under.
// A verification only outranks the session claim when it was issued by
// the verifier, is bound to this subject, and is fresh.
func (s *Store) effectiveRole(subject *auth.Subject, verified *identity.Verification) identity.Role {
	if verified.Covers(subject.ID, verificationMaxAge) {
		if verified.Role != subject.Role {
			logging.Info().
				Str("user_id", subject.ID).
				Str("session_role", string(subject.Role)).
				Str("verified_role", string(verified.Role)).
				Msg("Session role claim is stale, using server-verified role")
		}
		return verified.Role
	}
	return subject.Role
}

// CreateReport persists a new immutable health report.
func (s *Store) CreateReport(ctx context.Context, subject *auth.Subject, input CreateReportInput, verified *identity.Verification) (*models.HealthReport, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	role := s.effectiveRole(subject, verified)
	if err := s.policy.AuthorizeRole(subject, role, authz.ActionCreateReport); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(input); verr != nil {
		return nil, verr
	}

	report := &models.HealthReport{
		ID:            uuid.NewString(),
		CreatedBy:     subject.ID,
		CreatedByRole: string(role),
		Disease:       input.Disease,
		Description:   input.Description,
		Symptoms:      input.Symptoms,
		Village:       input.Village,
		Location:      input.Location,
		Date:          input.Date,
		Image:         input.Image,
		ItemName:      input.ItemName,
		ItemQuantity:  input.ItemQuantity,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, reportKeyPrefix+report.ID, report)
	})
	if err != nil {
		recordOperation("create_report", "error")
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	recordOperation("create_report", "ok")
	logging.Info().
		Str("report_id", report.ID).
		Str("village", report.Village).
		Str("disease", report.Disease).
		Msg("Health report created")
	return report, nil
}

// GetVillageSummary returns the role-shaped view of a village's reports.
// Citizens get disease counts only; health workers and admins get the
// full report list.
func (s *Store) GetVillageSummary(ctx context.Context, subject *auth.Subject, village string) (*models.VillageSummary, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	if village == "" {
		return nil, validation.NewFieldErrors("village", "village is required")
	}

	detailed := subject.Role.Privileged()
	action := authz.ActionSummaryAggregate
	if detailed {
		action = authz.ActionSummaryDetail
	}
	if err := s.policy.AuthorizeRole(subject, subject.Role, action); err != nil {
		return nil, err
	}

	var reports []*models.HealthReport
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, reportKeyPrefix, func(val []byte) error {
			var report models.HealthReport
			if err := json.Unmarshal(val, &report); err != nil {
				return fmt.Errorf("failed to decode report: %w", err)
			}
			if report.Village == village {
				reports = append(reports, &report)
			}
			return nil
		})
	})
	if err != nil {
		recordOperation("village_summary", "error")
		return nil, fmt.Errorf("failed to scan reports: %w", err)
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})

	recordOperation("village_summary", "ok")
	if !detailed {
		byDisease := make(map[string]int)
		for _, r := range reports {
			byDisease[r.Disease]++
		}
		return &models.VillageSummary{Type: "summary", ByDisease: byDisease}, nil
	}
	if reports == nil {
		reports = []*models.HealthReport{}
	}
	return &models.VillageSummary{Type: "detailed", Reports: reports}, nil
}

// CreateDraftRecord persists a new disease record in draft status.
func (s *Store) CreateDraftRecord(ctx context.Context, subject *auth.Subject, input CreateRecordInput, verified *identity.Verification) (*models.DiseaseRecord, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	role := s.effectiveRole(subject, verified)
	if err := s.policy.AuthorizeRole(subject, role, authz.ActionCreateRecord); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(input); verr != nil {
		return nil, verr
	}

	record := &models.DiseaseRecord{
		ID:              uuid.NewString(),
		CreatedBy:       subject.ID,
		CreatedByRole:   string(role),
		DiseaseName:     input.DiseaseName,
		Description:     input.Description,
		ImageURL:        input.ImageURL,
		Location:        input.Location,
		MedicalSupplies: toSupplyItems(input.MedicalSupplies),
		Status:          models.StatusDraft,
		CreatedAt:       time.Now().UTC(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, recordKeyPrefix+record.ID, record)
	})
	if err != nil {
		recordOperation("create_record", "error")
		return nil, fmt.Errorf("failed to store record: %w", err)
	}

	recordOperation("create_record", "ok")
	logging.Info().
		Str("record_id", record.ID).
		Str("disease", record.DiseaseName).
		Msg("Draft disease record created")
	return record, nil
}

// ListOwnRecords returns every record the caller created, regardless of
// status, newest first.
func (s *Store) ListOwnRecords(ctx context.Context, subject *auth.Subject) ([]*models.DiseaseRecord, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	if err := s.policy.AuthorizeRole(subject, subject.Role, authz.ActionReadOwnRecords); err != nil {
		return nil, err
	}

	records, err := s.scanRecords(func(r *models.DiseaseRecord) bool {
		return r.CreatedBy == subject.ID
	})
	if err != nil {
		recordOperation("list_own", "error")
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	recordOperation("list_own", "ok")
	return records, nil
}

// ListRegisteredRecords returns every registered record from any
// creator, most recently modified first.
func (s *Store) ListRegisteredRecords(ctx context.Context, subject *auth.Subject) ([]*models.DiseaseRecord, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	if err := s.policy.AuthorizeRole(subject, subject.Role, authz.ActionReadAllRecords); err != nil {
		return nil, err
	}

	records, err := s.scanRecords(func(r *models.DiseaseRecord) bool {
		return r.Status == models.StatusRegistered
	})
	if err != nil {
		recordOperation("list_registered", "error")
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		li, lj := records[i].LastModified(), records[j].LastModified()
		if !li.Equal(lj) {
			return li.After(lj)
		}
		return records[i].ID < records[j].ID
	})
	recordOperation("list_registered", "ok")
	return records, nil
}

// UpdateRecord patches a record's editable fields. Only the creator, or
// an admin, may update; Status and CreatedBy are untouchable.
func (s *Store) UpdateRecord(ctx context.Context, subject *auth.Subject, id string, input UpdateRecordInput, verified *identity.Verification) (*models.DiseaseRecord, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	role := s.effectiveRole(subject, verified)
	if err := s.policy.AuthorizeRole(subject, role, authz.ActionUpdateRecord); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(input); verr != nil {
		return nil, verr
	}

	var updated *models.DiseaseRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		record, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		if err := s.policy.AuthorizeOwned(subject, role, authz.ActionUpdateRecord, record.CreatedBy); err != nil {
			return err
		}

		if input.DiseaseName != nil {
			record.DiseaseName = *input.DiseaseName
		}
		if input.Description != nil {
			record.Description = *input.Description
		}
		if input.ImageURL != nil {
			record.ImageURL = *input.ImageURL
		}
		if input.Location != nil {
			record.Location = *input.Location
		}
		if input.MedicalSupplies != nil {
			record.MedicalSupplies = toSupplyItems(*input.MedicalSupplies)
		}
		now := time.Now().UTC()
		record.UpdatedAt = &now

		if err := putJSON(txn, recordKeyPrefix+record.ID, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		recordOperation("update_record", "error")
		return nil, err
	}

	recordOperation("update_record", "ok")
	logging.Info().Str("record_id", id).Msg("Disease record updated")
	return updated, nil
}

// RegisterRecord moves a record from draft to registered. Registering
// an already registered record is a no-op that returns the record
// unchanged.
func (s *Store) RegisterRecord(ctx context.Context, subject *auth.Subject, id string, verified *identity.Verification) (*models.DiseaseRecord, error) {
	if subject == nil {
		return nil, authz.ErrUnauthenticated
	}
	role := s.effectiveRole(subject, verified)
	if err := s.policy.AuthorizeRole(subject, role, authz.ActionRegisterRecord); err != nil {
		return nil, err
	}

	var registered *models.DiseaseRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		record, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		if err := s.policy.AuthorizeOwned(subject, role, authz.ActionRegisterRecord, record.CreatedBy); err != nil {
			return err
		}

		if Register(record, time.Now().UTC()) {
			if err := putJSON(txn, recordKeyPrefix+record.ID, record); err != nil {
				return err
			}
		}
		registered = record
		return nil
	})
	if err != nil {
		recordOperation("register_record", "error")
		return nil, err
	}

	recordOperation("register_record", "ok")
	logging.Info().
		Str("record_id", id).
		Str("status", string(registered.Status)).
		Msg("Disease record registered")
	return registered, nil
}

// scanRecords decodes every record matching the filter.
func (s *Store) scanRecords(keep func(*models.DiseaseRecord) bool) ([]*models.DiseaseRecord, error) {
	var records []*models.DiseaseRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, recordKeyPrefix, func(val []byte) error {
			var record models.DiseaseRecord
			if err := json.Unmarshal(val, &record); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}
			if keep(&record) {
				records = append(records, &record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	if records == nil {
		records = []*models.DiseaseRecord{}
	}
	return records, nil
}

func getRecord(txn *badger.Txn, id string) (*models.DiseaseRecord, error) {
	item, err := txn.Get([]byte(recordKeyPrefix + id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}
	var record models.DiseaseRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return &record, nil
}

func putJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek([]byte(prefix)); it.Valid(); it.Next() {
		item := it.Item()
		if !bytes.HasPrefix(item.Key(), []byte(prefix)) {
			break
		}
		if err := item.Value(fn); err != nil {
			return err
		}
	}
	return nil
}
