package layout

// 该文件定义芯片场景的图层结构，供场景组装、渲染与调试 JSON 共用。
// 坐标单位统一为像素（px），原点在左上角，y 轴向下。

// Result 保存一张芯片图的画布尺寸、按绘制顺序排列的图层与字体资源。
type Result struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Layers    []Layer     `json:"layers"`
	Resources ResourceSet `json:"resources"`
}

// ResourceSet 记录场景中引用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 为内置 embed:<name>，或渲染器按字体名注册的 built-in:<name>。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Layer 是一个绘制步骤；Plate 与 Texts 二选一，后绘制的图层覆盖先绘制的图层。
type Layer struct {
	Name  string    `json:"name"`
	Plate *Plate    `json:"plate,omitempty"`
	Texts []TextBox `json:"texts,omitempty"`
}

// Plate 是带渐变填充与描边的圆角矩形（散热顶盖）。
type Plate struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Radius      float64  `json:"radius"`
	Fill        Gradient `json:"fill"`
	StrokeColor Color    `json:"strokeColor"`
	StrokeWidth float64  `json:"strokeWidth"`
}

// Gradient 是从 (X1,Y1) 到 (X2,Y2) 的线性渐变，坐标为画布坐标。
type Gradient struct {
	X1    float64        `json:"x1"`
	Y1    float64        `json:"y1"`
	X2    float64        `json:"x2"`
	Y2    float64        `json:"y2"`
	Stops []GradientStop `json:"stops"`
}

// GradientStop 表示渐变上的一个色标，Offset 取值 [0,1]。
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

// TextBox 表示锚定在 (X,Y) 的单行文本。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"` // px
	Color    Color   `json:"color"`
	Align    string  `json:"align,omitempty"`    // left/center/right（默认 left）
	Baseline string  `json:"baseline,omitempty"` // alphabetic/middle（默认 alphabetic）
}
