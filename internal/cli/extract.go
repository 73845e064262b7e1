package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ncxgen/internal/toc"
)

var (
	extractOutput      string
	extractFormat      string
	extractPrettyPrint bool
	extractFlags       tocFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "XHTML 문서에서 목차 항목 추출",
	Long: `XHTML 책 파일에서 목차 항목을 찾아 출력합니다.

파일은 수정되지 않으며, 추가될 id도 출력에만 반영됩니다.
출력 형식은 JSON 또는 텍스트를 지원합니다.

예시:
  ncxgen extract book.xhtml
  ncxgen extract book.xhtml -o toc.json
  ncxgen extract book.xhtml --format text -q "//h1" -q "//h2"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "출력 형식 (json, text)")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")
	extractFlags.bind(extractCmd)

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractFlags.settings(cmd)
	if err != nil {
		return err
	}
	log := extractFlags.logger(cmd)
	defer log.Sync() //nolint:errcheck

	src, err := openSource(args[0], cfg, log)
	if err != nil {
		return err
	}
	res, err := src.buildTOC()
	if err != nil {
		return err
	}

	output, err := formatOutput(res, extractFormat, extractPrettyPrint)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if extractOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	} else {
		if err := os.WriteFile(extractOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("파일 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "목차 추출 완료: %s\n", extractOutput)
	}

	return nil
}

func formatOutput(res *toc.Result, format string, pretty bool) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(res, "", "  ")
		} else {
			data, err = json.Marshal(res)
		}
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatAsText(res), nil

	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

// formatAsText prints one item per line, indented by level.
func formatAsText(res *toc.Result) string {
	var sb strings.Builder
	for _, item := range res.Items {
		sb.WriteString(strings.Repeat(" ", item.Level))
		sb.WriteString(item.Label)
		sb.WriteString("\t")
		sb.WriteString(item.Link())
		sb.WriteString("\n")
	}
	return sb.String()
}
