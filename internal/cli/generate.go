package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/ncxgen/internal/artifact"
	"github.com/roboco-io/ncxgen/internal/config"
	"github.com/roboco-io/ncxgen/internal/logging"
	"github.com/roboco-io/ncxgen/internal/parser"
	"github.com/roboco-io/ncxgen/internal/preimage"
)

var (
	generateHTML      bool
	generateNCX       bool
	generateOPF       bool
	generateAll       bool
	generateTOCTitle  string
	generateAuthor    string
	generateTitle     string
	generateBookID    string
	generateLanguage  string
	generateImages    bool
	generateImagesDir string
	generateNoBackup  bool
	generateFlags     tocFlags
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "HTML 목차, NCX, OPF 파일 생성",
	Long: `XHTML 책 파일에서 목차 항목을 찾아 요청한 파일을 생성합니다.

생성 파일은 원본과 같은 디렉토리에 저장됩니다:
  --toc   HTML 목차 (기본: ncx-gen-toc.html)
  --ncx   NCX 내비게이션 (기본: ncx-gen-toc.ncx)
  --opf   OPF 패키지 (<원본 이름>.opf), --toc 또는 --ncx 필요

id가 추가된 원본은 파일이 하나 이상 생성된 경우에만 저장됩니다.

환경 변수:
  NCXGEN_TITLE      책 제목
  NCXGEN_AUTHOR     저자
  NCXGEN_BOOK_ID    책 식별자
  NCXGEN_COLLAPSE   NCX 수준 합치기
  NCXGEN_VERBOSE    상세 출력

예시:
  ncxgen generate book.xhtml --all
  ncxgen generate book.xhtml --ncx -l 1
  ncxgen generate book.xhtml -a -q "//h1" -q "//h2[@class='toc']"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateHTML, "toc", false, "HTML 목차 생성")
	generateCmd.Flags().BoolVar(&generateNCX, "ncx", false, "NCX 내비게이션 파일 생성")
	generateCmd.Flags().BoolVar(&generateOPF, "opf", false, "OPF 패키지 파일 생성")
	generateCmd.Flags().BoolVarP(&generateAll, "all", "a", false, "HTML 목차, NCX, OPF 모두 생성")
	generateCmd.Flags().StringVar(&generateTOCTitle, "toc-title", "", "목차 제목")
	generateCmd.Flags().StringVar(&generateAuthor, "author", "", "저자 이름")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "책 제목")
	generateCmd.Flags().StringVar(&generateBookID, "book-id", "", "책 식별자 (기본: urn:uuid 생성)")
	generateCmd.Flags().StringVar(&generateLanguage, "language", "", "책 언어 태그 (예: en-US, ko)")
	generateCmd.Flags().BoolVar(&generateImages, "images", false, "class=\"image\"인 pre 블록을 PNG로 변환")
	generateCmd.Flags().StringVar(&generateImagesDir, "images-dir", "", "변환된 이미지 저장 디렉토리 (원본 기준)")
	generateCmd.Flags().BoolVar(&generateNoBackup, "no-backup", false, ".bak 백업 생략")
	generateFlags.bind(generateCmd)

	rootCmd.AddCommand(generateCmd)
}

// outputs selects the artifacts of one run.
type outputs struct {
	HTML bool
	NCX  bool
	OPF  bool
}

func (o outputs) any() bool {
	return o.HTML || o.NCX || o.OPF
}

func (o outputs) has(name string) bool {
	switch name {
	case artifact.NameHTML:
		return o.HTML
	case artifact.NameNCX:
		return o.NCX
	case artifact.NameOPF:
		return o.OPF
	}
	return false
}

func (o outputs) validate() error {
	if !o.any() {
		return fmt.Errorf("생성할 파일이 없습니다: --toc, --ncx, --opf 또는 --all을 지정하세요")
	}
	if o.OPF && !(o.HTML || o.NCX) {
		return fmt.Errorf("--opf는 --toc 또는 --ncx와 함께 사용해야 합니다")
	}
	return nil
}

// report summarizes a generate run.
type report struct {
	Items   int
	Created int
	Backup  string
	Images  []preimage.Image
	Written []string
	Saved   bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := outputs{HTML: generateHTML, NCX: generateNCX, OPF: generateOPF}
	if generateAll {
		out = outputs{HTML: true, NCX: true, OPF: true}
	}
	if err := out.validate(); err != nil {
		return err
	}

	cfg, err := generateFlags.settings(cmd)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)

	log := generateFlags.logger(cmd)
	defer log.Sync() //nolint:errcheck

	rep, err := generate(args[0], cfg, out, log)
	if err != nil {
		return err
	}

	if !generateFlags.quiet {
		for _, name := range rep.Written {
			fmt.Fprintf(cmd.ErrOrStderr(), "생성됨: %s\n", name)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "목차 항목 %d개 (새 id %d개)\n", rep.Items, rep.Created)
	}
	return nil
}

func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("toc-title") {
		cfg.TOC.Title = generateTOCTitle
	}
	if flags.Changed("author") {
		cfg.Book.Author = generateAuthor
	}
	if flags.Changed("title") {
		cfg.Book.Title = generateTitle
	}
	if flags.Changed("book-id") {
		cfg.Book.ID = generateBookID
	}
	if flags.Changed("language") {
		cfg.Book.Language = generateLanguage
	}
	if generateImages {
		cfg.Images.Enabled = true
	}
	if flags.Changed("images-dir") {
		cfg.Images.Dir = generateImagesDir
	}
	if generateNoBackup {
		cfg.Output.Backup = false
	}
}

// generate runs the full pipeline on path and writes the requested
// artifacts next to it.
func generate(path string, cfg *config.Config, out outputs, log *zap.Logger) (*report, error) {
	if err := out.validate(); err != nil {
		return nil, err
	}
	log = logging.OrNop(log)

	src, err := openSource(path, cfg, log)
	if err != nil {
		return nil, err
	}
	rep := &report{}

	if cfg.Output.Backup {
		bak, err := parser.Backup(path)
		if err != nil {
			return nil, fmt.Errorf("백업 실패: %w", err)
		}
		rep.Backup = bak
		log.Debug("Backup written", zap.String("file", bak))
	}

	res, err := src.buildTOC()
	if err != nil {
		return nil, err
	}
	rep.Items = len(res.Items)
	rep.Created = res.Created

	// Images are written only once the TOC is known to be non-empty.
	if cfg.Images.Enabled {
		stem := strings.TrimSuffix(src.doc.Filename(), filepath.Ext(src.doc.Filename()))
		images, err := preimage.Rewrite(src.doc, src.dir, cfg.Images.Dir, stem, log)
		if err != nil {
			return nil, fmt.Errorf("이미지 변환 실패: %w", err)
		}
		rep.Images = images
	}

	files := artifact.Files{
		Source: src.doc.Filename(),
		Cover:  cfg.Book.Cover,
	}
	if out.HTML {
		files.HTML = cfg.Output.HTML
	}
	if out.NCX {
		files.NCX = cfg.Output.NCX
	}
	for _, img := range rep.Images {
		files.Images = append(files.Images, img.Href)
	}

	bundle := &artifact.Bundle{
		Items:     res.Items,
		Levels:    res.Levels,
		Tree:      src.assemble(res, files.HTML),
		Book:      bookFromConfig(cfg),
		Files:     files,
		TOCTitle:  cfg.TOC.Title,
		TextStart: src.guideAnchor(),
	}

	for _, name := range artifact.List() {
		if !out.has(name) {
			continue
		}
		w, err := artifact.Get(name)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(src.dir, outputFileName(cfg, name, src.doc.Filename()))
		if err := writeArtifact(target, w, bundle); err != nil {
			return nil, fmt.Errorf("%s 파일 생성 실패: %w", name, err)
		}
		log.Info("Artifact written", zap.String("kind", name), zap.String("file", target))
		rep.Written = append(rep.Written, target)
	}

	if len(rep.Written) > 0 {
		if err := parser.Save(src.doc, path); err != nil {
			return nil, fmt.Errorf("원본 저장 실패: %w", err)
		}
		rep.Saved = true
	}
	return rep, nil
}

func bookFromConfig(cfg *config.Config) artifact.Book {
	return artifact.Book{
		Title:     cfg.Book.Title,
		Author:    cfg.Book.Author,
		ID:        cfg.Book.Identifier(),
		Language:  cfg.Book.LanguageTag(),
		Publisher: cfg.Book.Publisher,
		Subject:   cfg.Book.Subject,
		Date:      time.Now().Format("2006-01-02"),
	}
}

func writeArtifact(path string, w artifact.Writer, b *artifact.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
