package classifier

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockModelService is a mock implementation of ModelService for testing
type mockModelService struct {
	GenerateTextFunc func(ctx context.Context, model, prompt string) (string, error)
	ListModelsFunc   func(ctx context.Context) ([]string, error)

	generateCalls int
	listCalls     int
	lastModel     string
}

func (m *mockModelService) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	m.generateCalls++
	m.lastModel = model
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, model, prompt)
	}
	return "Operating Expenses", nil
}

func (m *mockModelService) ListModels(ctx context.Context) ([]string, error) {
	m.listCalls++
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return []string{"gemini-2.5-flash"}, nil
}

func TestGeminiClassifier_Classify(t *testing.T) {
	svc := &mockModelService{
		GenerateTextFunc: func(ctx context.Context, model, prompt string) (string, error) {
			return "```\nRevenue\n```", nil
		},
	}
	g := New(svc, Config{})

	got, err := g.Classify(context.Background(), "Stripe payout")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != "Revenue" {
		t.Errorf("Classify() = %q, want Revenue", got)
	}
	if svc.lastModel != "gemini-2.5-flash" {
		t.Errorf("model = %q, want gemini-2.5-flash", svc.lastModel)
	}

	if _, err := g.Classify(context.Background(), "  STRIPE PAYOUT "); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if svc.generateCalls != 1 {
		t.Errorf("GenerateText called %d times, want 1 (memoized)", svc.generateCalls)
	}
	if svc.listCalls != 1 {
		t.Errorf("ListModels called %d times, want 1", svc.listCalls)
	}
}

func TestGeminiClassifier_PinnedModel(t *testing.T) {
	svc := &mockModelService{}
	g := New(svc, Config{Model: "gemini-custom"})

	if _, err := g.Classify(context.Background(), "rent"); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if svc.listCalls != 0 {
		t.Errorf("ListModels called %d times, want 0", svc.listCalls)
	}
	if svc.lastModel != "gemini-custom" {
		t.Errorf("model = %q, want gemini-custom", svc.lastModel)
	}
}

func TestGeminiClassifier_ListFailureRetries(t *testing.T) {
	fail := true
	svc := &mockModelService{
		ListModelsFunc: func(ctx context.Context) ([]string, error) {
			if fail {
				return nil, errors.New("permission denied")
			}
			return []string{"gemini-1.5-pro"}, nil
		},
	}
	g := New(svc, Config{})

	if _, err := g.Classify(context.Background(), "first"); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if svc.lastModel != FallbackModel {
		t.Errorf("model = %q, want %q", svc.lastModel, FallbackModel)
	}

	fail = false
	if _, err := g.Classify(context.Background(), "second"); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if svc.lastModel != "gemini-1.5-pro" {
		t.Errorf("model = %q, want gemini-1.5-pro", svc.lastModel)
	}
}

func TestGeminiClassifier_Errors(t *testing.T) {
	tests := []struct {
		name string
		svc  *mockModelService
	}{
		{
			name: "generate fails",
			svc: &mockModelService{GenerateTextFunc: func(ctx context.Context, model, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			}},
		},
		{
			name: "empty answer",
			svc: &mockModelService{GenerateTextFunc: func(ctx context.Context, model, prompt string) (string, error) {
				return "  ``` ```  ", nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.svc, Config{Model: "m"})
			if _, err := g.Classify(context.Background(), "x"); err == nil {
				t.Error("expected error")
			}
			if _, err := g.Classify(context.Background(), "x"); err == nil {
				t.Error("failure was memoized")
			}
		})
	}
}

func TestGeminiClassifier_RateLimitHonoursContext(t *testing.T) {
	g := New(&mockModelService{}, Config{Model: "m", RequestsPerSecond: 0.001})

	if _, err := g.Classify(context.Background(), "first"); err != nil {
		t.Fatalf("first Classify() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := g.Classify(ctx, "second"); err == nil {
		t.Error("expected rate limit error")
	}
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{"preferred order", []string{"gemini-pro", "gemini-1.5-pro", "gemini-2.5-flash"}, "gemini-2.5-flash"},
		{"later preference", []string{"text-bison", "gemini-pro"}, "gemini-pro"},
		{"any flash model", []string{"embedding-001", "gemini-1.5-flash-8b"}, "gemini-1.5-flash-8b"},
		{"first listed", []string{"embedding-001", "aqa"}, "embedding-001"},
		{"nothing listed", nil, FallbackModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectModel(tt.available); got != tt.want {
				t.Errorf("selectModel(%v) = %q, want %q", tt.available, got, tt.want)
			}
		})
	}
}

func TestCleanModelLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Revenue", "Revenue"},
		{"  Loan Repayment\n", "Loan Repayment"},
		{"```text\nPersonal/Other\n```", "Personal/Other"},
		{"```\nRevenue\n```", "Revenue"},
		{"revenue", "revenue"},
		{"**Revenue.**", "**Revenue.**"},
		{"Groceries", "Groceries"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cleanModelLabel(tt.raw); got != tt.want {
			t.Errorf("cleanModelLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	want := "You are a financial classifier. Classify the transaction description into one of: " +
		"['Revenue', 'Operating Expenses', 'Loan Repayment', 'Personal/Other']. " +
		"Return ONLY the category name.\n\n" +
		"Transaction: AWS invoice"

	if got := BuildPrompt("AWS invoice"); got != want {
		t.Errorf("BuildPrompt() =\n%q\nwant\n%q", got, want)
	}
}
