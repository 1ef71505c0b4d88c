package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称。
const (
	SerifBold = "serif-bold"
	SansBold  = "sans-bold"
	Mono      = "mono"
	Regular   = "regular"
)

var builtin = map[string][]byte{
	SerifBold: lmroman10bold.TTF,
	SansBold:  gobold.TTF,
	Mono:      gomono.TTF,
	Regular:   goregular.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:sans-bold" 或直接 "sans-bold"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体（可用: %s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名称（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
