package usecase

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autoleads/internal/entity"
)

func TestWriteLeadsCSV(t *testing.T) {
	ts := time.Date(2026, 2, 5, 23, 30, 0, 0, time.UTC).UnixMilli()
	leads := []entity.Lead{
		{ID: "1", CompanyName: "Acme, SARL", ProductName: `Sac "Luxe"`, Phone: "06 12 34 56 78", Timestamp: ts},
		{ID: "2", CompanyName: "Baobab", ProductName: "Jus", Phone: "+221770000000", Timestamp: ts},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, leads, DefaultDateLayout, time.UTC))

	want := "ID,Company,Product,Phone,Date\n" +
		`1,"Acme, SARL","Sac ""Luxe""","06 12 34 56 78",05/02/2026` + "\n" +
		`2,"Baobab","Jus","+221770000000",05/02/2026`
	assert.Equal(t, want, buf.String())
}

func TestWriteLeadsCSVUsesLocation(t *testing.T) {
	ts := time.Date(2026, 2, 5, 23, 30, 0, 0, time.UTC).UnixMilli()
	paris := time.FixedZone("CET", 3600)

	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, []entity.Lead{{ID: "1", Timestamp: ts}}, DefaultDateLayout, paris))
	assert.Contains(t, buf.String(), "06/02/2026")
}

func TestWriteLeadsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, nil, DefaultDateLayout, time.UTC))
	assert.Equal(t, "ID,Company,Product,Phone,Date", buf.String())
}

func TestSendExportByEmail(t *testing.T) {
	session, _ := newTestSession(entity.Lead{ID: "1", Phone: "12345678"})
	mail := new(MockEmailService)
	mail.On("SendLeadsExport", "me@example.com", mock.Anything, 1).Return(nil)

	uc := NewExportLeadsUseCase(session, mail, "", time.UTC)
	out, err := uc.SendByEmail(SendExportInput{To: "me@example.com"})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	mail.AssertExpectations(t)
}

func TestSendExportByEmailErrors(t *testing.T) {
	empty, _ := newTestSession()
	full, _ := newTestSession(entity.Lead{ID: "1"})

	_, err := NewExportLeadsUseCase(full, new(MockEmailService), "", time.UTC).SendByEmail(SendExportInput{To: "not-an-email"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)

	_, err = NewExportLeadsUseCase(full, nil, "", time.UTC).SendByEmail(SendExportInput{To: "me@example.com"})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotConfigured, de.Code)

	_, err = NewExportLeadsUseCase(empty, new(MockEmailService), "", time.UTC).SendByEmail(SendExportInput{To: "me@example.com"})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNoLeads, de.Code)

	failing := new(MockEmailService)
	failing.On("SendLeadsExport", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp 535"))
	_, err = NewExportLeadsUseCase(full, failing, "", time.UTC).SendByEmail(SendExportInput{To: "me@example.com"})
	var te *TechnicalError
	assert.ErrorAs(t, err, &te)
}
