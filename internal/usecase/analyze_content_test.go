package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autoleads/internal/entity"
	"github.com/xavierca1/autoleads/internal/infra/parser"
)

type upperSanitizer struct{}

func (upperSanitizer) PlainText(s string) string { return "clean:" + s }

func TestAnalyzeValidationErrorBeforeGateway(t *testing.T) {
	session, _ := newTestSession()
	gw := new(MockGateway)
	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)

	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "   "})

	assert.Nil(t, out)
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	gw.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	assert.False(t, uc.Busy())
}

func TestAnalyzeMarkupOnlyTextRejectedBeforeGateway(t *testing.T) {
	session, _ := newTestSession()
	gw := new(MockGateway)
	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), parser.NewHTMLCleaner(), nil)

	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "<div><script>x()</script></div>"})

	assert.Nil(t, out)
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	gw.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	assert.False(t, uc.Busy())
}

func TestAnalyzeOctetStreamImageSniffed(t *testing.T) {
	session, _ := newTestSession()
	png := []byte("\x89PNG\r\n\x1a\n0000")
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, entity.ExtractionRequest{Image: png, ImageMIME: "image/png"}).
		Return(&entity.ExtractionResult{}, nil)

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)
	_, err := uc.Execute(context.Background(), AnalyzeContentInput{Image: png, ImageMIME: "application/octet-stream"})

	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestAnalyzeTextLimitCountsCharacters(t *testing.T) {
	text := strings.Repeat("é", MaxTextLength)
	assert.Empty(t, ValidateAnalyzeContentInput(AnalyzeContentInput{Text: text}))
	assert.NotEmpty(t, ValidateAnalyzeContentInput(AnalyzeContentInput{Text: text + "é"}))
}

func TestAnalyzeRejectsNonImageMIME(t *testing.T) {
	session, _ := newTestSession()
	uc := NewAnalyzeContentUseCase(session, new(MockGateway), testDeduplicator(), nil, nil)

	_, err := uc.Execute(context.Background(), AnalyzeContentInput{Image: []byte("%PDF"), ImageMIME: "application/pdf"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
}

func TestAnalyzeGatewayFailureCommitsNothing(t *testing.T) {
	session, repo := newTestSession()
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "pub"})

	assert.Nil(t, out)
	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeGatewayError, te.Code)
	assert.NotContains(t, te.Message, "quota")
	assert.ErrorContains(t, te.Unwrap(), "quota exceeded")

	assert.Equal(t, 0, session.Count())
	repo.AssertNotCalled(t, "SaveLeads", mock.Anything, mock.Anything)
	assert.False(t, uc.Busy())
}

func TestAnalyzeNoNewLeads(t *testing.T) {
	session, repo := newTestSession(entity.Lead{ID: "old", Phone: "0612345678"})
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, mock.Anything).Return(&entity.ExtractionResult{Leads: []entity.ExtractionCandidate{
		{Phone: "06-12-34-56-78"}, {Phone: "1234567"},
	}}, nil)

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "pub"})

	require.NoError(t, err)
	assert.Equal(t, StatusNoNewLeads, out.Status)
	assert.Equal(t, 0, out.Added)
	assert.Equal(t, 2, out.Candidates)
	assert.Empty(t, out.Leads)
	repo.AssertNotCalled(t, "SaveLeads", mock.Anything, mock.Anything)
}

func TestAnalyzeAddsLeadsOnTopAndPublishes(t *testing.T) {
	old := entity.Lead{ID: "old", Phone: "0700000000", Timestamp: 1}
	session, repo := newTestSession(old)
	repo.On("SaveLeads", mock.Anything, mock.Anything).Return(nil)

	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, entity.ExtractionRequest{Text: "clean:Promo Acme"}).
		Return(&entity.ExtractionResult{Leads: []entity.ExtractionCandidate{
			{Phone: "06 12 34 56 78", CompanyName: "Acme", ProductName: "Shoes"},
			{Phone: "06 99 99 99 99", CompanyName: "Acme", ProductName: "Bags"},
		}}, nil)

	pub := new(MockPublisher)
	pub.On("PublishLeadAccepted", mock.Anything, mock.Anything).Return(nil)

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), upperSanitizer{}, pub)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "  Promo Acme "})

	require.NoError(t, err)
	assert.Equal(t, StatusLeadsAdded, out.Status)
	assert.Equal(t, 2, out.Added)
	assert.Empty(t, out.Warning)

	leads := session.Leads()
	require.Len(t, leads, 3)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, "lead-2", leads[1].ID)
	assert.Equal(t, "old", leads[2].ID)

	repo.AssertCalled(t, "SaveLeads", mock.Anything, leads)
	pub.AssertNumberOfCalls(t, "PublishLeadAccepted", 2)
}

func TestAnalyzePublishFailureIsNotFatal(t *testing.T) {
	session, repo := newTestSession()
	repo.On("SaveLeads", mock.Anything, mock.Anything).Return(nil)
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, mock.Anything).Return(&entity.ExtractionResult{Leads: []entity.ExtractionCandidate{{Phone: "12345678"}}}, nil)
	pub := new(MockPublisher)
	pub.On("PublishLeadAccepted", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, pub)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "x"})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, 1, session.Count())
}

func TestAnalyzePersistenceFailureKeepsLeadsWithWarning(t *testing.T) {
	session, repo := newTestSession()
	repo.On("SaveLeads", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, mock.Anything).Return(&entity.ExtractionResult{Leads: []entity.ExtractionCandidate{{Phone: "12345678"}}}, nil)

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "x"})

	require.NoError(t, err)
	assert.Equal(t, StatusLeadsAdded, out.Status)
	assert.Equal(t, PersistenceWarning, out.Warning)
	assert.Equal(t, 1, session.Count())
}

func TestAnalyzeImageMIMESniffed(t *testing.T) {
	session, _ := newTestSession()
	png := []byte("\x89PNG\r\n\x1a\n0000")
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, entity.ExtractionRequest{Image: png, ImageMIME: "image/png"}).
		Return(&entity.ExtractionResult{}, nil)

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)
	out, err := uc.Execute(context.Background(), AnalyzeContentInput{Image: png})

	require.NoError(t, err)
	assert.Equal(t, StatusNoNewLeads, out.Status)
	gw.AssertExpectations(t)
}

func TestAnalyzeRejectsConcurrentRun(t *testing.T) {
	session, repo := newTestSession()
	repo.On("SaveLeads", mock.Anything, mock.Anything).Return(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(MockGateway)
	gw.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&entity.ExtractionResult{Leads: []entity.ExtractionCandidate{{Phone: "12345678"}}}, nil).Once()

	uc := NewAnalyzeContentUseCase(session, gw, testDeduplicator(), nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "first"})
		assert.NoError(t, err)
	}()

	<-started
	assert.True(t, uc.Busy())
	_, err := uc.Execute(context.Background(), AnalyzeContentInput{Text: "second"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeAnalysisInProgress, de.Code)

	close(release)
	wg.Wait()
	assert.False(t, uc.Busy())
	assert.Equal(t, 1, session.Count())
}
