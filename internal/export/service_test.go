package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/repository"
)

type fakeClaims struct {
	recent []*repository.StoredClaim
}

func (f *fakeClaims) Insert(context.Context, *claim.Record, []byte, string) (uuid.UUID, error) {
	return uuid.Nil, nil
}
func (f *fakeClaims) GetByID(context.Context, uuid.UUID) (*repository.StoredClaim, error) {
	return nil, nil
}
func (f *fakeClaims) ListRecent(context.Context, int) ([]*repository.StoredClaim, error) {
	return f.recent, nil
}
func (f *fakeClaims) MarkUploaded(context.Context, uuid.UUID, int) error { return nil }
func (f *fakeClaims) MarkFailed(context.Context, uuid.UUID) error        { return nil }

func TestExportClaimsXLSX(t *testing.T) {
	cost := 350.0
	uploaded := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	repo := &fakeClaims{recent: []*repository.StoredClaim{
		{
			ID:       uuid.New(),
			FileName: "a_ghamdi.json",
			Record: &claim.Record{
				FileName: "a_ghamdi.json",
				Contents: claim.FormContent{
					Insured:  &claim.InsuredInfo{InsuredName: "Ahmed Al Ghamdi", NationalID: "1034567890"},
					Provider: &claim.ProviderInfo{InsuranceCompanyName: "Tawuniya", DateOfVisit: "15/03/2024"},
					SuggestedServices: []claim.ServiceEntry{
						{Code: "120034", Description: "CT BRAIN", ApprovedCost: &cost},
						{Code: "400100", Description: "CBC"},
					},
				},
			},
			Status:     repository.StatusUploaded,
			Unresolved: 1,
			CreatedAt:  uploaded.Add(-time.Hour),
			UploadedAt: &uploaded,
		},
	}}

	svc := NewService(repo, nil)
	out, err := svc.ExportClaimsXLSX(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, claimHeaders, rows[0][:len(claimHeaders)])

	got := rows[1]
	assert.Equal(t, "a_ghamdi.json", got[0])
	assert.Equal(t, "Ahmed Al Ghamdi", got[1])
	assert.Equal(t, "Tawuniya", got[3])
	assert.Equal(t, "2", got[5])
	assert.Equal(t, "350", got[6])
	assert.Equal(t, repository.StatusUploaded, got[7])
}

func TestExportClaimsXLSXEmpty(t *testing.T) {
	svc := NewService(&fakeClaims{}, nil)
	out, err := svc.ExportClaimsXLSX(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
