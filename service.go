package careflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/careflow/internal/idgen"
	"github.com/viant/careflow/metrics"
	"github.com/viant/careflow/model"
	"github.com/viant/careflow/model/validation"
	"github.com/viant/careflow/service/compiler"
	"github.com/viant/careflow/service/diff"
	"github.com/viant/careflow/service/dsl"
	"github.com/viant/careflow/tracing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version of the compiler recorded in traces
const Version = "0.1.0"

// Source is a named document compiled by CompileAll
type Source struct {
	// Location is loaded with the service loader when Data is empty
	Location string
	Data     []byte
}

// Result is a CompileAll entry, Output may be partial when Err is set
type Result struct {
	Source string
	Output *compiler.Output
	Err    error
}

// Service compiles workflow documents
type Service struct {
	config        *Config
	logger        *zap.Logger
	now           func() time.Time
	registerer    prometheus.Registerer
	metrics       *metrics.Collector
	loader        *dsl.Loader
	loaderOptions []dsl.LoaderOption
	compiler      *compiler.Compiler
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Compile parses and compiles YAML or JSON data
func (s *Service) Compile(ctx context.Context, data []byte, author string) (*compiler.Output, error) {
	doc, err := dsl.Parse(data)
	if err != nil {
		s.metrics.RecordCompilation(metrics.OutcomeFailed, 0, nil)
		return nil, err
	}
	return s.CompileDocument(ctx, doc, author)
}

// CompileDocument compiles a parsed document
func (s *Service) CompileDocument(ctx context.Context, doc *dsl.Document, author string) (*compiler.Output, error) {
	if author == "" {
		author = s.config.Author
	}
	started := time.Now()
	output, err := s.compiler.Compile(ctx, doc, author)
	var result *validation.Result
	if output != nil {
		result = output.Validation
	}
	s.metrics.RecordCompilation(metrics.Outcome(result, err), time.Since(started), result)
	return output, err
}

// Load loads a document from location and compiles it
func (s *Service) Load(ctx context.Context, location string, author string) (*compiler.Output, error) {
	doc, err := s.loader.Load(ctx, location)
	if err != nil {
		s.metrics.RecordCompilation(metrics.OutcomeFailed, 0, nil)
		return nil, err
	}
	return s.CompileDocument(ctx, doc, author)
}

// CompileAll compiles sources concurrently, bounded by Config.Workers.
// Results keep the order of sources; per source failures are reported in
// Result.Err and do not cancel other compilations.
func (s *Service) CompileAll(ctx context.Context, sources []*Source, author string) ([]*Result, error) {
	batchID := idgen.New()
	ctx, span := tracing.StartSpan(ctx, "careflow.compileAll", "INTERNAL")
	span.WithInt("sources", len(sources))
	defer tracing.EndSpan(span, nil)

	results := make([]*Result, len(sources))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.Workers)
	for i, source := range sources {
		i, source := i, source
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = s.compileSource(groupCtx, source, author)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	failed := 0
	for _, result := range results {
		if result.Err != nil || !result.Output.Validation.IsValid {
			failed++
		}
	}
	s.logger.Info("compiled batch",
		zap.String("batch", batchID),
		zap.Int("sources", len(sources)),
		zap.Int("failed", failed))
	return results, nil
}

func (s *Service) compileSource(ctx context.Context, source *Source, author string) *Result {
	result := &Result{Source: source.Location}
	if source.Location == "" {
		result.Source = "inline"
	}
	if len(source.Data) > 0 {
		result.Output, result.Err = s.Compile(ctx, source.Data, author)
	} else if source.Location != "" {
		result.Output, result.Err = s.Load(ctx, source.Location, author)
	} else {
		result.Err = dsl.ErrEmptyDocument
	}
	return result
}

// Diff reports the difference of two definitions, identity and audit metadata excluded
func (s *Service) Diff(from, to *model.WorkflowDefinition) (*diff.Report, error) {
	return diff.Definitions(from, to)
}

// DiffDocuments compiles both documents and reports the difference of their definitions
func (s *Service) DiffDocuments(ctx context.Context, from, to []byte) (*diff.Report, error) {
	before, err := definitionOf(s.Compile(ctx, from, ""))
	if err != nil {
		return nil, fmt.Errorf("invalid source document: %w", err)
	}
	after, err := definitionOf(s.Compile(ctx, to, ""))
	if err != nil {
		return nil, fmt.Errorf("invalid target document: %w", err)
	}
	return s.Diff(before, after)
}

// DiffLocations loads both documents with the service loader and reports the difference of their definitions
func (s *Service) DiffLocations(ctx context.Context, from, to string) (*diff.Report, error) {
	before, err := definitionOf(s.Load(ctx, from, ""))
	if err != nil {
		return nil, fmt.Errorf("invalid source document %v: %w", from, err)
	}
	after, err := definitionOf(s.Load(ctx, to, ""))
	if err != nil {
		return nil, fmt.Errorf("invalid target document %v: %w", to, err)
	}
	return s.Diff(before, after)
}

func definitionOf(output *compiler.Output, err error) (*model.WorkflowDefinition, error) {
	if err != nil {
		return nil, err
	}
	if output.Definition == nil {
		return nil, errors.New("workflow was not converted")
	}
	return output.Definition, nil
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if s.config.Workers <= 0 {
		s.config.Workers = DefaultConfig().Workers
	}
	if s.metrics == nil && (s.registerer != nil || s.config.Metrics.Enabled) {
		registerer := s.registerer
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		namespace := s.config.Metrics.Namespace
		if namespace == "" {
			namespace = DefaultConfig().Metrics.Namespace
		}
		s.metrics = metrics.NewCollector(namespace, registerer)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, s.config.Tracing.ServiceVersion, s.config.Tracing.OutputFile); err != nil {
			s.logger.Warn("failed to initialise tracing", zap.Error(err))
		}
	}
	if s.loader == nil {
		loaderOptions := s.loaderOptions
		if s.config.BaseURL != "" {
			loaderOptions = append([]dsl.LoaderOption{dsl.WithBaseURL(s.config.BaseURL)}, loaderOptions...)
		}
		s.loader = dsl.NewLoader(loaderOptions...)
	}
	s.compiler = compiler.New(compiler.WithLogger(s.logger), compiler.WithClock(s.now))
	s.logger = s.logger.With(zap.String("component", "careflow"))
}

// New creates a service
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig(), logger: zap.NewNop()}
	ret.init(options)
	return ret
}
