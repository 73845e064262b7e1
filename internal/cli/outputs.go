package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ncxgen/internal/artifact"
	"github.com/roboco-io/ncxgen/internal/config"
)

type outputInfo struct {
	Flag        string
	Description string
}

var outputInfos = map[string]outputInfo{
	artifact.NameHTML: {Flag: "--toc", Description: "XHTML 1.0 목차 페이지"},
	artifact.NameNCX:  {Flag: "--ncx", Description: "NCX 2005-1 내비게이션"},
	artifact.NameOPF:  {Flag: "--opf", Description: "OPF 2.0 패키지"},
}

var outputsConfigPath string

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "생성 가능한 파일 목록",
	Long: `generate 명령이 생성할 수 있는 파일과 현재 설정의 파일 이름을 표시합니다.

사용 예시:
  ncxgen generate book.xhtml --toc --ncx
  ncxgen config set output.ncx toc.ncx`,
	RunE: runOutputs,
}

func init() {
	outputsCmd.Flags().StringVar(&outputsConfigPath, "config", "", "설정 파일 경로")
	rootCmd.AddCommand(outputsCmd)
}

func runOutputs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(outputsConfigPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "출력\t플래그\t파일\t설명")
	fmt.Fprintln(w, "----\t------\t----\t----")

	for _, name := range artifact.List() {
		info := outputInfos[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, info.Flag, outputFileName(cfg, name, "<원본>.xhtml"), info.Description)
	}
	return nil
}

// outputFileName returns the file written for artifact name when source is
// processed.
func outputFileName(cfg *config.Config, name, source string) string {
	switch name {
	case artifact.NameHTML:
		return cfg.Output.HTML
	case artifact.NameNCX:
		return cfg.Output.NCX
	case artifact.NameOPF:
		return cfg.Output.OPFName(source)
	}
	return ""
}
