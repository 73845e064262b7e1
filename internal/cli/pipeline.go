package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/ncxgen/internal/config"
	"github.com/roboco-io/ncxgen/internal/document"
	"github.com/roboco-io/ncxgen/internal/logging"
	"github.com/roboco-io/ncxgen/internal/nav"
	"github.com/roboco-io/ncxgen/internal/parser"
	"github.com/roboco-io/ncxgen/internal/toc"
)

// tocFlags are the extraction flags shared by generate, extract and tree.
type tocFlags struct {
	configPath string
	queries    []string
	collapse   int
	verbose    bool
	quiet      bool
}

func (f *tocFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.queries, "query", "q", nil, "목차 수준별 XPath 쿼리 (반복 가능, 순서 = 수준)")
	cmd.Flags().IntVarP(&f.collapse, "level", "l", 0, "NCX 생성 시 루트로 합칠 수준 수")
	cmd.Flags().StringVar(&f.configPath, "config", "", "설정 파일 경로 (기본: ~/.ncxgen/config.yaml)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "상세 출력")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "조용한 모드")
}

// settings loads the configuration and applies environment and flag
// overrides, in that order.
func (f *tocFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	if len(f.queries) > 0 {
		cfg.TOC.Queries = f.queries
	}
	if cmd.Flags().Changed("level") {
		cfg.TOC.Collapse = f.collapse
	}
	return cfg, nil
}

func (f *tocFlags) logger(cmd *cobra.Command) *zap.Logger {
	return logging.New(logging.Options{
		Verbose: f.verbose || config.GetEnvBool(config.EnvVerbose),
		Quiet:   f.quiet,
		Writer:  cmd.ErrOrStderr(),
	})
}

func loadConfig(path string) (*config.Config, error) {
	var loader *config.Loader
	if path != "" {
		loader = config.NewLoaderWithPath(path)
	} else {
		l, err := config.NewLoader()
		if err != nil {
			return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
		}
		loader = l
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("환경 변수 오류: %w", err)
	}
	return cfg, nil
}

// source is one parsed book and the settings it is processed with.
type source struct {
	path string
	dir  string
	cfg  *config.Config
	doc  *document.Document
	log  *zap.Logger
}

func openSource(path string, cfg *config.Config, log *zap.Logger) (*source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("잘못된 설정: %w", err)
	}

	format := parser.DetectFormat(path)
	if format == parser.FormatUnknown {
		if f, err := os.Open(path); err == nil {
			format, _ = parser.DetectFormatFromReader(f)
			f.Close()
		}
	}
	if format == parser.FormatUnknown {
		log.Warn("Unrecognized file type, parsing as XHTML", zap.String("file", path))
	}

	doc, err := parser.ParseFile(path, parser.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}
	log.Debug("Parsed source", zap.String("file", path), zap.Stringer("format", format))

	return &source{
		path: path,
		dir:  filepath.Dir(path),
		cfg:  cfg,
		doc:  doc,
		log:  log,
	}, nil
}

func (s *source) buildTOC() (*toc.Result, error) {
	queries := s.cfg.TOC.Queries
	if len(queries) == 0 {
		queries = toc.DefaultQueries
	}
	s.log.Info("Building table of contents", zap.Int("levels", len(queries)))

	seq := toc.NewIDSequence(s.cfg.TOC.IDPrefix)
	res, err := toc.Build(s.doc, queries, s.doc.Filename(), seq, s.log)
	if err != nil {
		return nil, fmt.Errorf("목차 생성 실패: %w", err)
	}
	s.log.Info("Table of contents ready",
		zap.Int("items", len(res.Items)),
		zap.Int("created_ids", res.Created))
	return res, nil
}

// guideAnchor returns the id where the main text starts, or "".
func (s *source) guideAnchor() string {
	anchor, ok := s.doc.FindGuideAnchor(s.cfg.TOC.GuideIDs...)
	if !ok {
		s.log.Debug("No text guide anchor")
		return ""
	}
	if anchor.Ambiguous() {
		w := document.AmbiguousGuideAnchorWarning{Chosen: anchor.ID, Matches: anchor.Matches}
		s.log.Warn("Ambiguous text guide, selecting the first", zap.Error(w))
	} else {
		s.log.Info("Found text guide", zap.String("id", anchor.ID))
	}
	return anchor.ID
}

// assemble folds items into the navigation tree. A non-empty selfHref adds
// the entry pointing at the HTML TOC.
func (s *source) assemble(res *toc.Result, selfHref string) *nav.Tree {
	opts := nav.Options{
		LevelCount: res.Levels,
		Collapse:   s.cfg.TOC.Collapse,
	}
	if selfHref != "" {
		opts.RootLabel = s.cfg.TOC.Title
		opts.RootHref = selfHref
	}
	return nav.Assemble(res.Items, opts)
}
