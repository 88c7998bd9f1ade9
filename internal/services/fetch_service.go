package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
	"github.com/kleinfit/klein-data-pipeline/internal/utils"
	"github.com/kleinfit/klein-data-pipeline/pkg/firebase"
	"github.com/kleinfit/klein-data-pipeline/pkg/logger"
)

// Compile-time check to ensure FetchServiceImpl implements FetchService
var _ FetchService = (*FetchServiceImpl)(nil)

// FetchServiceImpl pulls raw exports from Firebase and stores them as dated
// files for the processing stage.
type FetchServiceImpl struct {
	client      *firebase.Client
	snapshots   repositories.SnapshotRepository
	roster      repositories.RosterRepository
	fakeDomains []string
	logger      *logger.Logger
}

// NewFetchService creates a new FetchServiceImpl. fakeDomains lists email
// domains whose accounts are dropped from the roster export entirely (build
// and UAT accounts that never belong in any output).
func NewFetchService(client *firebase.Client, snapshots repositories.SnapshotRepository, roster repositories.RosterRepository, fakeDomains []string, log *logger.Logger) *FetchServiceImpl {
	return &FetchServiceImpl{
		client:      client,
		snapshots:   snapshots,
		roster:      roster,
		fakeDomains: fakeDomains,
		logger:      log,
	}
}

// FetchSnapshot exports the /users subtree and writes it under today's date.
func (s *FetchServiceImpl) FetchSnapshot(ctx context.Context) (string, error) {
	raw, err := s.client.FetchUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user snapshot: %w", err)
	}
	path, err := s.snapshots.Save(ctx, raw)
	if err != nil {
		return "", err
	}
	s.logger.Info("Saved raw snapshot", "path", path, "bytes", len(raw))
	return path, nil
}

// FetchRoster pages through the auth accounts, drops fake-domain emails and
// writes the roster CSV under today's date.
func (s *FetchServiceImpl) FetchRoster(ctx context.Context) (string, error) {
	accounts, err := s.client.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list auth accounts: %w", err)
	}

	records := make([]models.AuthRecord, 0, len(accounts))
	dropped := 0
	for _, a := range accounts {
		if s.isFakeEmail(a.Email) {
			dropped++
			continue
		}
		records = append(records, models.AuthRecord{
			UserID:       a.UID,
			Email:        a.Email,
			CreationDate: utils.FormatEpochMillis(a.CreatedAt),
			LastSignIn:   utils.FormatEpochMillis(a.LastLoginAt),
		})
	}

	path, err := s.roster.Save(ctx, records)
	if err != nil {
		return "", err
	}
	s.logger.Info("Saved auth roster", "path", path, "accounts", len(records), "droppedFakeEmails", dropped)
	return path, nil
}

func (s *FetchServiceImpl) isFakeEmail(email string) bool {
	email = strings.ToLower(email)
	for _, domain := range s.fakeDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}
