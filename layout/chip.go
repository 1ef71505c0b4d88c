package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 画布与顶盖的固定几何参数（px）。
const (
	CanvasSize = 800.0

	plateOffset = 100.0
	plateSize   = 600.0
	plateRadius = 40.0
	plateStroke = 4.0
)

// 字体资源名称。
const (
	FontLogo      = "Logo"
	FontEngraving = "Engraving"
	FontSubtext   = "Subtext"
)

// 固定文案。
const (
	LogoText    = "FAI"
	OriginLine  = "MALAYSIA MADE"
	BatchLine   = "BATCH: #NULL000"
	logoSize    = 80.0
	engraveSize = 48.0
	subtextSize = 32.0
)

var (
	gradientStart = mustColor("#e2e8f0")
	gradientMid   = mustColor("#cbd5e1")
	gradientEnd   = mustColor("#94a3b8")
	strokeColor   = mustColor("#64748b")
	logoColor     = mustColor("#334155")
	engraveColor  = mustColor("#475569")
)

// Chip 组装芯片封装图的全部图层：顶盖、FAI 标志、刻字与两行小字。
// 场景只依赖刻字内容，对同一输入总是返回相同结果。
func Chip(engraving string) *Result {
	plate := Layer{
		Name: "ihs",
		Plate: &Plate{
			X:      plateOffset,
			Y:      plateOffset,
			Width:  plateSize,
			Height: plateSize,
			Radius: plateRadius,
			Fill: Gradient{
				X1: 0, Y1: 0, X2: CanvasSize, Y2: CanvasSize,
				Stops: []GradientStop{
					{Offset: 0, Color: gradientStart},
					{Offset: 0.5, Color: gradientMid},
					{Offset: 1, Color: gradientEnd},
				},
			},
			StrokeColor: strokeColor,
			StrokeWidth: plateStroke,
		},
	}

	logo := Layer{Name: "logo", Texts: []TextBox{
		centered(LogoText, 250, FontLogo, logoSize, logoColor),
	}}
	engravingLayer := Layer{Name: "engraving", Texts: []TextBox{
		centered(engraving, 350, FontEngraving, engraveSize, engraveColor),
	}}
	subtext := Layer{Name: "subtext", Texts: []TextBox{
		centered(OriginLine, 450, FontSubtext, subtextSize, engraveColor),
		centered(BatchLine, 500, FontSubtext, subtextSize, engraveColor),
	}}

	return &Result{
		Width:  CanvasSize,
		Height: CanvasSize,
		Layers: []Layer{plate, logo, engravingLayer, subtext},
		Resources: ResourceSet{Fonts: map[string]FontResource{
			FontLogo:      {Name: FontLogo, Src: "embed:serif-bold", Style: "bold", Family: "FAI Serif"},
			FontEngraving: {Name: FontEngraving, Src: "embed:sans-bold", Style: "bold", Family: "FAI Sans"},
			FontSubtext:   {Name: FontSubtext, Src: "embed:mono", Style: "regular", Family: "FAI Mono"},
		}},
	}
}

func centered(content string, y float64, font string, size float64, col Color) TextBox {
	return TextBox{
		Content:  content,
		X:        CanvasSize / 2,
		Y:        y,
		Font:     font,
		FontSize: size,
		Color:    col,
		Align:    "center",
		Baseline: "middle",
	}
}

// ParseColor 解析 #rgb 或 #rrggbb 形式的颜色。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("无效颜色 %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无效颜色 %q: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

func mustColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}
