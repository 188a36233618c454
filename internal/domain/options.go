package domain

// OptionsDocument 生成选项文档，保留未知字段
//
// 已知字段：subscribes, auto_set_outbounds_dns, save_config_path, auto_backup,
// exclude_protocol, config_template, Only-nodes。数字以 json.Number 保存。
type OptionsDocument map[string]interface{}

// SaveConfigPathKey 引擎写出配置文件的路径字段，每次生成前都会被覆盖
const SaveConfigPathKey = "save_config_path"

// DefaultOptionsJSON 进程启动时的默认生成选项
const DefaultOptionsJSON = `{"subscribes":[{"url":"URL","tag":"tag_1","enabled":true,"emoji":1,"subgroup":"","prefix":"","User-Agent":"v2rayng"},{"url":"URL","tag":"tag_2","enabled":false,"emoji":0,"subgroup":"命名/named","prefix":"❤️","User-Agent":"clashmeta"}],"auto_set_outbounds_dns":{"proxy":"","direct":""},"save_config_path":"./config.json","auto_backup":false,"exclude_protocol":"ssr","config_template":"","Only-nodes":false}`

// Clone 返回顶层浅拷贝，修改顶层字段不会影响原文档
func (d OptionsDocument) Clone() OptionsDocument {
	out := make(OptionsDocument, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Template 表示一个配置模板
type Template struct {
	// Index 对外展示的 1 起始序号
	Index int    `json:"index"`
	Name  string `json:"name"`
}
