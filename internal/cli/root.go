// Package cli implements the ncxgen command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ncxgen",
	Short: "XHTML 책에서 HTML 목차, NCX, OPF 생성",
	Long: `ncxgen은 단일 XHTML 책 파일에서 제목 요소를 찾아
HTML 목차, NCX 내비게이션 파일, OPF 패키지 파일을 생성합니다.

목차 수준마다 하나의 XPath 쿼리를 사용합니다 (기본: //h2, //h3, //h4).
id가 없는 제목에는 NCXGen1, NCXGen2... 형식의 id가 추가되며
원본 파일은 수정 전에 .bak 파일로 백업됩니다.

예시:
  ncxgen generate book.xhtml --all
  ncxgen generate book.xhtml --toc --ncx -q "//h1" -q "//h2[@class='toc']"
  ncxgen tree book.xhtml`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ncxgen %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
