package insights

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/carelens-ai/platform/pkg/prediction"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeReader struct {
	record prediction.PatientAnalysisModel
	err    error
}

func (f *fakeReader) GetAnalysis(_ context.Context, _ string) (prediction.PatientAnalysisModel, error) {
	return f.record, f.err
}

type fakeCompleter struct {
	lastSystem string
	lastUser   string
	reply      string
	err        error
}

func (f *fakeCompleter) Complete(_ context.Context, systemInstruction, userMessage string) (string, error) {
	f.lastSystem = systemInstruction
	f.lastUser = userMessage
	return f.reply, f.err
}

func TestSummarizeGroundsPromptInRecord(t *testing.T) {
	reader := &fakeReader{
		record: prediction.PatientAnalysisModel{
			PatientID:     "A100",
			RiskTier:      5,
			RiskTierLabel: "Critical",
		},
	}
	completer := &fakeCompleter{reply: "High risk patient."}
	service := NewService(reader, nil, completer, nil, 0)

	summary, err := service.Summarize(context.Background(), "A100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Summary != "High risk patient." {
		t.Fatalf("unexpected summary %q", summary.Summary)
	}
	if summary.Cached {
		t.Fatal("summary should not be marked cached without a cache")
	}
	if !strings.Contains(completer.lastUser, "**Complete Patient Record:**") {
		t.Fatalf("prompt missing patient record:\n%s", completer.lastUser)
	}
	if !strings.Contains(completer.lastUser, "Critical") {
		t.Fatalf("prompt missing tier label:\n%s", completer.lastUser)
	}
}

func TestSummarizePropagatesNotFound(t *testing.T) {
	reader := &fakeReader{err: prediction.ErrAnalysisNotFound}
	service := NewService(reader, nil, &fakeCompleter{}, nil, 0)

	if _, err := service.Summarize(context.Background(), "missing"); !errors.Is(err, prediction.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
}

func TestChatEmbedsRecordInSystemInstruction(t *testing.T) {
	reader := &fakeReader{
		record: prediction.PatientAnalysisModel{PatientID: "B200", RiskTierLabel: "Low Risk"},
	}
	completer := &fakeCompleter{reply: "The patient is low risk."}
	service := NewService(reader, nil, completer, nil, 0)

	resp, err := service.Chat(context.Background(), models.ChatRequest{
		PatientID: "B200",
		Message:   "How risky is this patient?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "The patient is low risk." {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	if !strings.Contains(completer.lastSystem, "Low Risk") {
		t.Fatalf("system instruction missing record context:\n%s", completer.lastSystem)
	}
	if completer.lastUser != "How risky is this patient?" {
		t.Fatalf("user message altered: %q", completer.lastUser)
	}
}

func TestChatPropagatesCompleterError(t *testing.T) {
	reader := &fakeReader{record: prediction.PatientAnalysisModel{PatientID: "C300"}}
	completer := &fakeCompleter{err: errors.New("upstream timeout")}
	service := NewService(reader, nil, completer, nil, 0)

	if _, err := service.Chat(context.Background(), models.ChatRequest{PatientID: "C300", Message: "hi"}); err == nil {
		t.Fatal("expected error from completer")
	}
}
