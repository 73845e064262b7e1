package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/roboco-io/ncxgen/internal/nav"
)

var (
	rootStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	hrefStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	enumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var (
	treeSelfEntry bool
	treeFlags     tocFlags
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "NCX 내비게이션 트리 미리보기",
	Long: `NCX 파일에 기록될 내비게이션 트리를 터미널에 표시합니다.

-l 로 합친 수준과 -q 쿼리가 그대로 반영됩니다.
파일은 수정되지 않습니다.

예시:
  ncxgen tree book.xhtml
  ncxgen tree book.xhtml -l 1 --self`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treeSelfEntry, "self", false, "HTML 목차 항목 포함")
	treeFlags.bind(treeCmd)

	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := treeFlags.settings(cmd)
	if err != nil {
		return err
	}
	log := treeFlags.logger(cmd)
	defer log.Sync() //nolint:errcheck

	src, err := openSource(args[0], cfg, log)
	if err != nil {
		return err
	}
	res, err := src.buildTOC()
	if err != nil {
		return err
	}

	self := ""
	if treeSelfEntry {
		self = cfg.Output.HTML
	}
	t := src.assemble(res, self)

	fmt.Fprintln(cmd.OutOrStdout(), renderTree(t, cfg.Book.Title))
	fmt.Fprintf(cmd.ErrOrStderr(), "항목 %d개, 깊이 %d\n", t.Len(), t.Depth())
	return nil
}

// renderTree draws the navigation tree with the book title as root.
func renderTree(t *nav.Tree, title string) string {
	root := tree.Root(title).
		RootStyle(rootStyle).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	addNodes(root, t.Root.Children)
	return root.String()
}

func addNodes(parent *tree.Tree, nodes []*nav.Node) {
	for _, n := range nodes {
		label := n.Label + " " + hrefStyle.Render(n.Href)
		if len(n.Children) == 0 {
			parent.Child(label)
			continue
		}
		sub := tree.Root(label).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(enumStyle)
		addNodes(sub, n.Children)
		parent.Child(sub)
	}
}
