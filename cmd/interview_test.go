package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/quasivo/internal/ai"
	"github.com/spigell/quasivo/internal/document"
	"github.com/spigell/quasivo/internal/interview"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestConsole(core zapcore.Core) *console {
	return &console{
		config:  &Config{OutputDir: "data", AI: &AIConfig{Gemini: &GeminiConfig{}}},
		logger:  zap.New(core),
		out:     io.Discard,
		in:      bufio.NewReader(strings.NewReader("")),
		session: interview.NewSession(),
	}
}

type stubGenerator struct {
	responses []string
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	if len(s.responses) == 0 {
		return "", errors.New("unexpected call")
	}
	res := s.responses[0]
	s.responses = s.responses[1:]
	return res, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func useGenerator(t *testing.T, g ai.Generator) {
	t.Helper()
	original := newGenerator
	newGenerator = func(context.Context, string, string, int, *zap.Logger) (ai.Generator, error) {
		return g, nil
	}
	t.Cleanup(func() { newGenerator = original })
}

func TestMenuItemsFollowSessionState(t *testing.T) {
	c := newTestConsole(zapcore.NewNopCore())

	if got := c.menuItems(); !reflect.DeepEqual(got, []string{PromptJobDescription, PromptResume, PromptExit}) {
		t.Fatalf("generation must not be offered without inputs: %q", got)
	}

	c.input = interview.Input{JobDescription: "jd", Resume: "cv"}
	if got := c.menuItems(); !reflect.DeepEqual(got, []string{PromptJobDescription, PromptResume, PromptGenerate, PromptExit}) {
		t.Fatalf("unexpected items with inputs: %q", got)
	}

	c.session.Start(c.input, []string{"q1", "q2", "q3"})
	want := []string{PromptJobDescription, PromptResume, PromptGenerate, PromptAnswer, PromptScore, PromptExit}
	if got := c.menuItems(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected items with session: %q", got)
	}
}

func TestInterviewerRequiresAPIKey(t *testing.T) {
	c := newTestConsole(zapcore.NewNopCore())

	_, err := c.interviewer(context.Background())

	var cfgErr *ai.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestInterviewerRejectsUnknownProvider(t *testing.T) {
	c := newTestConsole(zapcore.NewNopCore())
	c.config.AI.Provider = "openai"
	c.config.AI.Gemini.APIKey = "key"

	_, err := c.interviewer(context.Background())

	var cfgErr *ai.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Setting != "ai provider" {
		t.Fatalf("expected provider configuration error, got %v", err)
	}
}

func TestGenerateWithoutKeyLeavesSessionUntouched(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	c := newTestConsole(core)
	c.input = interview.Input{JobDescription: "jd", Resume: "cv"}

	if err := c.generate(context.Background()); err != nil {
		t.Fatalf("configuration errors must not stop the console: %v", err)
	}

	if c.session.Active() {
		t.Fatal("session must not start without a configured model")
	}

	entries := observed.All()
	if len(entries) != 1 || entries[0].Message != "model is not configured" {
		t.Fatalf("expected a single configuration error entry, got %+v", entries)
	}
}

func TestReadFileWarnsOnBrokenPDF(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	c := newTestConsole(core)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	text, err := c.readFile(path, document.ResumeExtensions)
	if err != nil {
		t.Fatalf("extraction failures must not be fatal: %v", err)
	}

	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}

	if len(observed.All()) != 1 {
		t.Fatalf("expected a warning, got %d entries", len(observed.All()))
	}
}

func TestReadFileRejectsUnsupportedType(t *testing.T) {
	c := newTestConsole(zapcore.NewNopCore())

	if _, err := c.readFile("cv.docx", document.ResumeExtensions); err == nil {
		t.Fatal("expected error for a non-pdf résumé")
	}
}

func TestFileValidator(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "jd.txt")
	if err := os.WriteFile(file, []byte("jd"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	validate := fileValidator(document.JobDescriptionExtensions)

	if err := validate(" " + file + " "); err != nil {
		t.Fatalf("expected existing file to pass, got %v", err)
	}

	if err := validate(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected missing file to fail")
	}

	if err := validate(filepath.Join(dir, "image.png")); err == nil {
		t.Fatal("expected unsupported extension to fail")
	}
}

func TestRedactedHidesAPIKey(t *testing.T) {
	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret", Model: "gemini-2.0-flash"}}}

	got := redacted(config)

	if got.AI.Gemini.APIKey != "***" {
		t.Fatalf("expected key to be hidden, got %q", got.AI.Gemini.APIKey)
	}

	if config.AI.Gemini.APIKey != "secret" {
		t.Fatal("original config must not be modified")
	}
}

func TestInterviewRoundSavesSession(t *testing.T) {
	useGenerator(t, &stubGenerator{responses: []string{
		"Here are three questions:\n1. Why Go over Python?\n2. Describe a service you scaled.\n3. How do you test concurrency?",
		"8",
		"6",
		"9",
	}})

	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "sessions")

	c := newTestConsole(zapcore.NewNopCore())
	c.config.OutputDir = dir
	c.config.AI.Gemini.APIKey = "key"
	c.out = &out
	c.input = interview.Input{JobDescription: "Backend engineer, Go, 3 yrs", Resume: "5 yrs backend, Python, Go"}
	c.in = bufio.NewReader(strings.NewReader(
		"Static typing.\n\nAnd goroutines.\n.\nSharded a queue consumer.\n.\nRace detector and fakes.\n.\n",
	))

	ctx := context.Background()

	if err := c.generate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.session.Active() || !strings.Contains(out.String(), "2. Describe a service you scaled.") {
		t.Fatalf("expected questions to be shown:\n%s", out.String())
	}

	if err := c.answer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answers := []string{"Static typing.\n\nAnd goroutines.", "Sharded a queue consumer.", "Race detector and fakes."}
	if got := c.session.Answers(); !reflect.DeepEqual(got, answers) {
		t.Fatalf("unexpected answers: %q", got)
	}

	if err := c.score(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"1. Why Go over Python?\nAnswer: Static typing.\n\nAnd goroutines.\nScore: 8/10",
		"Score: 6/10",
		"Score: 9/10",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one saved session, got %d", len(entries))
	}

	path := filepath.Join(dir, entries[0].Name())
	if !strings.Contains(out.String(), "Session saved to "+path) {
		t.Fatalf("expected save confirmation for %s:\n%s", path, out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading session: %v", err)
	}

	var saved struct {
		Answers []string `json:"answers"`
		Scores  []int    `json:"scores"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decoding session: %v", err)
	}

	if !reflect.DeepEqual(saved.Answers, answers) || !reflect.DeepEqual(saved.Scores, []int{8, 6, 9}) {
		t.Fatalf("unexpected saved session: %+v", saved)
	}
}

func TestAnswerKeepsCurrentOnEmptySubmission(t *testing.T) {
	c := newTestConsole(zapcore.NewNopCore())
	c.session.Start(interview.Input{JobDescription: "jd", Resume: "cv"}, []string{"q1", "q2", "q3"})
	for idx, answer := range []string{"first", "second", "third"} {
		if err := c.session.SetAnswer(idx, answer); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c.in = bufio.NewReader(strings.NewReader(".\nrevised\n.\n.\n"))

	if err := c.answer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.session.Answers(); !reflect.DeepEqual(got, []string{"first", "revised", "third"}) {
		t.Fatalf("unexpected answers: %q", got)
	}
}

func TestReadTextKeepsParagraphs(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "terminator line",
			input:  "Backend engineer\n\nRequirements:\r\n- Go\n .\nnext",
			expect: []string{"Backend engineer\n\nRequirements:\n- Go", "next"},
		},
		{
			name:   "end of input",
			input:  "Résumé\n\nExperience",
			expect: []string{"Résumé\n\nExperience", ""},
		},
		{
			name:   "empty submission",
			input:  ".\n",
			expect: []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))
			for idx, want := range tt.expect {
				got, err := readText(r)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != want {
					t.Fatalf("read %d: expected %q, got %q", idx, want, got)
				}
			}
		})
	}
}
