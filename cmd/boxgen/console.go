package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
)

// console 交互式控制台
// 使用 go-prompt 提供带 Tab 补全的 REPL，选项修改只在本进程内生效
type console struct {
	app *application
	out io.Writer
}

// newConsoleCmd 创建控制台命令
func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "进入交互式控制台",
		Long: `进入交互式控制台，查看模板、编辑临时生成选项并直接生成配置。

进入控制台后，可使用命令:
  help                         显示帮助
  template list                列出模板
  providers show               显示订阅提供方配置
  options show                 显示当前临时生成选项
  options set <json>           替换临时生成选项
  options load <file>          从文件加载临时生成选项
  options clear                清空临时生成选项
  generate <N> [output]        生成第 N 个模板的配置
  exit / quit                  退出控制台`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &console{app: app, out: os.Stdout}
			return c.run()
		},
	}
}

// run 启动控制台主循环
func (c *console) run() error {
	c.printWelcome()

	p := prompt.New(
		c.executor,
		c.completer,
		prompt.OptionPrefix("boxgen> "),
		prompt.OptionTitle("boxgen console"),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionSelectedSuggestionBGColor(prompt.Blue),
		prompt.OptionSelectedSuggestionTextColor(prompt.White),
		prompt.OptionSetExitCheckerOnInput(isExitCommand),
	)

	// 阻塞直到 exit 或 Ctrl+D
	p.Run()
	fmt.Fprintln(c.out, "\n已退出控制台。")
	return nil
}

func isExitCommand(in string, breakline bool) bool {
	line := strings.TrimSpace(in)
	return breakline && (line == "exit" || line == "quit")
}

func (c *console) executor(in string) {
	line := strings.TrimSpace(in)
	if line == "" || isExitCommand(line, true) {
		return
	}
	if err := c.handleCommand(line); err != nil {
		fmt.Fprintf(c.out, "错误: %v\n", err)
	}
}

func (c *console) printWelcome() {
	fmt.Fprintln(c.out, "boxgen 交互式控制台，输入 help 查看可用命令，Tab 键补全。")
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, `可用命令:
  template list
  providers show
  options show | set <json> | load <file> | clear
  generate <N> [output]
  exit / quit`)
}

// handleCommand 解析并执行单行命令
func (c *console) handleCommand(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
		return nil
	case "template":
		if len(args) == 0 || args[0] != "list" {
			return fmt.Errorf("用法: template list")
		}
		return printTemplates(c.out, c.app.templates)
	case "providers":
		if len(args) == 0 || args[0] != "show" {
			return fmt.Errorf("用法: providers show")
		}
		text, err := c.app.providers.Text()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)
		return nil
	case "options":
		return c.handleOptions(line, args)
	case "generate":
		if len(args) == 0 {
			return fmt.Errorf("用法: generate <N> [output]")
		}
		output := ""
		if len(args) > 1 {
			output = args[1]
		}
		content, err := c.app.generator.Generate(context.Background(), args[0])
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Fprintln(c.out, string(content))
			return nil
		}
		if err := os.WriteFile(output, content, 0644); err != nil {
			return fmt.Errorf("写入输出文件失败: %w", err)
		}
		fmt.Fprintf(c.out, "配置已写入 %s (%d 字节)\n", output, len(content))
		return nil
	default:
		return fmt.Errorf("未知命令: %s，输入 help 查看帮助", cmd)
	}
}

func (c *console) handleOptions(line string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("用法: options show|set <json>|load <file>|clear")
	}
	store := c.app.options
	switch args[0] {
	case "show":
		fmt.Fprintln(c.out, store.Text())
	case "clear":
		store.Clear()
		fmt.Fprintln(c.out, "已清空")
	case "set":
		// JSON 中可能含空格，取 set 之后的原始文本
		idx := strings.Index(line, "set")
		if err := store.Replace(strings.TrimSpace(line[idx+len("set"):])); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "已保存")
	case "load":
		if len(args) < 2 {
			return fmt.Errorf("用法: options load <file>")
		}
		if err := loadOptionsFile(store, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "已加载")
	default:
		return fmt.Errorf("未知子命令: options %s", args[0])
	}
	return nil
}

// completer 提供 Tab 补全
func (c *console) completer(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return c.topLevelSuggestions("")
	}

	current := ""
	if !strings.HasSuffix(text, " ") {
		current = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return c.topLevelSuggestions(current)
	}

	args := parts[1:]
	switch parts[0] {
	case "template":
		if len(args) == 0 {
			return filterSuggestions([]prompt.Suggest{{Text: "list", Description: "列出所有可用模板"}}, current)
		}
	case "providers":
		if len(args) == 0 {
			return filterSuggestions([]prompt.Suggest{{Text: "show", Description: "显示订阅提供方配置"}}, current)
		}
	case "options":
		if len(args) == 0 {
			return filterSuggestions([]prompt.Suggest{
				{Text: "show", Description: "显示临时生成选项"},
				{Text: "set", Description: "替换临时生成选项"},
				{Text: "load", Description: "从文件加载"},
				{Text: "clear", Description: "清空临时生成选项"},
			}, current)
		}
	case "generate":
		if len(args) == 0 {
			return filterSuggestions(c.templateSuggestions(), current)
		}
	}
	return []prompt.Suggest{}
}

func (c *console) topLevelSuggestions(current string) []prompt.Suggest {
	return filterSuggestions([]prompt.Suggest{
		{Text: "help", Description: "显示帮助"},
		{Text: "template", Description: "模板命令"},
		{Text: "providers", Description: "订阅提供方命令"},
		{Text: "options", Description: "临时生成选项命令"},
		{Text: "generate", Description: "生成配置"},
		{Text: "exit", Description: "退出控制台"},
	}, current)
}

func (c *console) templateSuggestions() []prompt.Suggest {
	templates, err := c.app.templates.ListTemplates()
	if err != nil {
		return nil
	}
	res := make([]prompt.Suggest, 0, len(templates))
	for _, tpl := range templates {
		res = append(res, prompt.Suggest{Text: fmt.Sprintf("%d", tpl.Index), Description: tpl.Name})
	}
	return res
}

func filterSuggestions(subs []prompt.Suggest, current string) []prompt.Suggest {
	var res []prompt.Suggest
	for _, s := range subs {
		if strings.HasPrefix(s.Text, current) {
			res = append(res, s)
		}
	}
	return res
}
