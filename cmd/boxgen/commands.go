package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucksec/boxgen/internal/repository"
)

// listTemplatesCmd 列出模板目录下可选的配置模板
func listTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出可用配置模板",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTemplates(cmd.OutOrStdout(), app.templates)
		},
	}
}

func printTemplates(w io.Writer, repo repository.TemplateRepository) error {
	templates, err := repo.ListTemplates()
	if err != nil {
		return fmt.Errorf("列出模板失败: %w", err)
	}
	if len(templates) == 0 {
		fmt.Fprintln(w, "没有可用模板")
		return nil
	}
	for _, label := range repository.TemplateLabels(templates) {
		fmt.Fprintln(w, label)
	}
	return nil
}

// generateCmd 不经过 HTTP 直接调用生成引擎
func generateCmd() *cobra.Command {
	var (
		file        string
		optionsFile string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "按模板编号生成 sing-box 配置",
		Example: `  # 使用默认选项生成第 1 个模板
  boxgen generate --file 1

  # 使用自定义选项并写入文件
  boxgen generate --file 2 --options opts.json -o config.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if optionsFile != "" {
				if err := loadOptionsFile(app.options, optionsFile); err != nil {
					return err
				}
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), file, output)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "模板编号（从 1 开始）")
	cmd.Flags().StringVar(&optionsFile, "options", "", "临时生成选项 JSON 文件")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件（默认输出到标准输出）")
	_ = cmd.RegisterFlagCompletionFunc("file", completeTemplateIndexes())
	return cmd
}

func loadOptionsFile(store repository.OptionsStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取选项文件失败: %w", err)
	}
	if err := store.Replace(string(data)); err != nil {
		return fmt.Errorf("选项文件无效: %w", err)
	}
	return nil
}

func runGenerate(ctx context.Context, w io.Writer, file, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	content, err := app.generator.Generate(ctx, file)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = w.Write(content)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(output, content, 0644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	fmt.Fprintf(w, "配置已写入 %s (%d 字节)\n", output, len(content))
	return nil
}

// showProvidersCmd 输出当前订阅提供方文档
func showProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "显示订阅提供方配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := app.providers.Text()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

// showOptionsCmd 输出进程启动时的默认生成选项
func showOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "显示默认临时生成选项",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.options.Text())
			return nil
		},
	}
}

// completeTemplateIndexes 补全模板编号，描述为模板名称
func completeTemplateIndexes() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		a, err := loadApplication()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		templates, err := a.templates.ListTemplates()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var completions []string
		for _, tpl := range templates {
			index := fmt.Sprintf("%d", tpl.Index)
			if strings.HasPrefix(index, toComplete) {
				completions = append(completions, fmt.Sprintf("%s\t%s", index, tpl.Name))
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
