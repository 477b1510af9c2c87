package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spigell/quasivo/internal/ai"
	"github.com/spigell/quasivo/internal/ai/gemini"
	"github.com/spigell/quasivo/internal/document"
	"github.com/spigell/quasivo/internal/interview"
	"github.com/spigell/quasivo/internal/logger"
	"github.com/spigell/quasivo/internal/recorder"
	"github.com/spigell/quasivo/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptJobDescription = "Set job description"
	PromptResume         = "Set résumé"
	PromptGenerate       = "Generate questions"
	PromptAnswer         = "Answer questions"
	PromptScore          = "Score my answers"
	PromptExit           = "Exit"

	SourcePaste      = "Paste text"
	SourceUploadFile = "Upload file"
	SourceUploadPDF  = "Upload PDF"
)

// endOfText ends multi-line input.
const endOfText = "."

var errExit = errors.New("exit requested")

var newGenerator = func(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (ai.Generator, error) {
	generator, err := gemini.NewGenerator(ctx, apiKey, model, maxLogLength, log)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive screening interview",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("output-dir", "o", "", "directory for saved sessions (default is ./data)")
	interviewCmd.Flags().String("jd-file", "", "preload the job description from a file")
	interviewCmd.Flags().String("resume-file", "", "preload the résumé from a PDF file")

	viper.BindPFlag("output-dir", interviewCmd.Flags().Lookup("output-dir"))
}

// console is the interactive front end. It owns the interview session.
type console struct {
	config  *Config
	logger  *zap.Logger
	out     io.Writer
	in      *bufio.Reader
	input   interview.Input
	session *interview.Session
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting quasivo", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	c := &console{
		config:  config,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		in:      bufio.NewReader(cmd.InOrStdin()),
		session: interview.NewSession(),
	}

	if path := cmd.Flag("jd-file").Value.String(); path != "" {
		c.input.JobDescription, err = c.readFile(path, document.JobDescriptionExtensions)
		if err != nil {
			logger.Fatal("loading job description", zap.Error(err))
		}
	}

	if path := cmd.Flag("resume-file").Value.String(); path != "" {
		c.input.Resume, err = c.readFile(path, document.ResumeExtensions)
		if err != nil {
			logger.Fatal("loading résumé", zap.Error(err))
		}
	}

	for {
		menu := promptui.Select{
			Label: "Choose an action",
			Items: c.menuItems(),
			Size:  6,
		}

		_, action, err := menu.Run()
		if err != nil {
			if isInterrupt(err) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := c.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) || isInterrupt(err) {
				logger.Info("exiting", zap.String("reason", "requested by user"))
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// menuItems offers generation only once both inputs are present, and the
// answer/score actions only while a session is running.
func (c *console) menuItems() []string {
	items := []string{PromptJobDescription, PromptResume}

	if c.input.Ready() {
		items = append(items, PromptGenerate)
	}

	if c.session.Active() {
		items = append(items, PromptAnswer, PromptScore)
	}

	return append(items, PromptExit)
}

func (c *console) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptJobDescription:
		text, err := c.collect("Job description source", SourceUploadFile, document.JobDescriptionExtensions)
		if err != nil {
			return err
		}
		c.input.JobDescription = text
		return nil
	case PromptResume:
		text, err := c.collect("Résumé source", SourceUploadPDF, document.ResumeExtensions)
		if err != nil {
			return err
		}
		c.input.Resume = text
		return nil
	case PromptGenerate:
		return c.generate(ctx)
	case PromptAnswer:
		return c.answer()
	case PromptScore:
		return c.score(ctx)
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (c *console) generate(ctx context.Context) error {
	if err := c.input.Validate(); err != nil {
		c.logger.Error("please provide both the job description and résumé text", zap.Error(err))
		return nil
	}

	interviewer, err := c.interviewer(ctx)
	if err != nil {
		c.reportConfigError(err)
		return nil
	}

	questions, err := interviewer.GenerateQuestions(ctx, c.input)
	if err != nil {
		c.logger.Error("generating questions", zap.Error(err))
		return nil
	}

	c.session.Start(c.input, questions)
	c.logger.Info("questions generated, answer them next", zap.Int("count", len(questions)))

	fmt.Fprintln(c.out, "\nInterview Questions")
	for _, q := range questions {
		fmt.Fprintf(c.out, "  %s\n", q)
	}
	fmt.Fprintln(c.out)

	return nil
}

// answer collects a multi-line answer per question. Submitting nothing keeps
// the current answer.
func (c *console) answer() error {
	answers := c.session.Answers()

	for idx, question := range c.session.Questions() {
		fmt.Fprintf(c.out, "\n%s\n", question)
		if answers[idx] != "" {
			fmt.Fprintf(c.out, "Current answer:\n%s\n", answers[idx])
		}
		fmt.Fprintf(c.out, "Your answer to Q%d (finish with a line containing only %q):\n", idx+1, endOfText)

		text, err := readText(c.in)
		if err != nil {
			return err
		}

		if text == "" {
			continue
		}

		if err := c.session.SetAnswer(idx, text); err != nil {
			return err
		}
	}

	return nil
}

func (c *console) score(ctx context.Context) error {
	interviewer, err := c.interviewer(ctx)
	if err != nil {
		c.reportConfigError(err)
		return nil
	}

	scores, err := interviewer.ScoreAnswers(ctx, c.session)
	if err != nil {
		c.logger.Error("scoring answers", zap.Error(err))
		return nil
	}

	questions := c.session.Questions()
	answers := c.session.Answers()

	fmt.Fprintln(c.out, "\nResults")
	for idx := range questions {
		fmt.Fprintf(c.out, "%s\nAnswer: %s\nScore: %d/10\n---\n", questions[idx], answers[idx], scores[idx])
	}

	record, err := interview.NewRecord(c.session, scores, time.Now())
	if err != nil {
		c.logger.Error("building session record", zap.Error(err))
		return nil
	}

	filename, err := recorder.Save(record, c.config.OutputDir)
	if err != nil {
		c.logger.Error("saving session", zap.Error(err), zap.String("output_dir", c.config.OutputDir))
		return nil
	}

	c.logger.Info("session saved", zap.String("filename", filename))
	fmt.Fprintf(c.out, "Session saved to %s\n", filename)

	return nil
}

// interviewer configures the model gateway for a single action. A missing
// key fails only that action.
func (c *console) interviewer(ctx context.Context) (*interview.Interviewer, error) {
	cfg := c.config.AI

	if provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider != "" && provider != "gemini" {
		return nil, &ai.ConfigurationError{Setting: "ai provider", Err: fmt.Errorf("unsupported ai provider: %s", cfg.Provider)}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, &ai.ConfigurationError{Setting: "gemini api key", Err: err}
	}

	generator, err := newGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxLogLength, c.logger)
	if err != nil {
		return nil, err
	}

	return interview.New(generator, c.logger), nil
}

func (c *console) reportConfigError(err error) {
	var cfgErr *ai.ConfigurationError
	if errors.As(err, &cfgErr) {
		c.logger.Error("model is not configured",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY (or GEMINI_API_KEY_FILE) in the environment or .env file, or ai.gemini.api-key in the config"),
		)
		return
	}

	c.logger.Error("configuring model", zap.Error(err))
}

// collect asks where the text comes from and reads it.
func (c *console) collect(label, uploadItem string, extensions []string) (string, error) {
	source := promptui.Select{
		Label: label,
		Items: []string{SourcePaste, uploadItem},
	}

	_, selected, err := source.Run()
	if err != nil {
		return "", err
	}

	if selected == SourcePaste {
		fmt.Fprintf(c.out, "Paste the text, then finish with a line containing only %q or press Ctrl-D:\n", endOfText)
		return readText(c.in)
	}

	path, err := (&promptui.Prompt{
		Label:    fmt.Sprintf("Path to file (%s)", strings.Join(extensions, ", ")),
		Validate: fileValidator(extensions),
	}).Run()
	if err != nil {
		return "", err
	}

	return c.readFile(strings.TrimSpace(path), extensions)
}

// readFile loads and extracts a document. Extraction problems are warnings:
// the (possibly empty) text is still used.
func (c *console) readFile(path string, extensions []string) (string, error) {
	if !document.Accepts(path, extensions) {
		return "", fmt.Errorf("unsupported file type %q, expected one of %s", path, strings.Join(extensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text, warning := document.Extract(path, data)
	if warning != nil {
		c.logger.Warn("could not parse document", zap.String("path", path), zap.Error(warning))
	}

	return text, nil
}

// readText reads lines until one holding only endOfText or the end of input.
// Blank lines are kept.
func readText(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == endOfText {
			break
		}

		if err != nil {
			if line != "" {
				lines = append(lines, line)
			}
			break
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func fileValidator(extensions []string) promptui.ValidateFunc {
	return func(input string) error {
		path := strings.TrimSpace(input)
		if !document.Accepts(path, extensions) {
			return fmt.Errorf("expected one of %s", strings.Join(extensions, ", "))
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}

		return nil
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

// redacted hides the API key before the config is logged.
func redacted(config *Config) Config {
	copied := *config
	if config.AI != nil && config.AI.Gemini != nil {
		geminiCfg := *config.AI.Gemini
		if geminiCfg.APIKey != "" {
			geminiCfg.APIKey = "***"
		}
		aiCfg := *config.AI
		aiCfg.Gemini = &geminiCfg
		copied.AI = &aiCfg
	}
	return copied
}
