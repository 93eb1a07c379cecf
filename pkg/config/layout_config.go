package config

// 布局配置常量
// 本文件定义了落地页预览的布局参数，包括窗口尺寸、内容栏宽度、区块间距等

// Window Configuration (窗口配置)
const (
	// WindowWidth 是预览的逻辑宽度（像素）
	WindowWidth = 1200

	// WindowHeight 是预览的逻辑高度（像素）
	WindowHeight = 800

	// WindowTitle 是窗口标题的前缀，后接变体品牌名
	WindowTitle = "The Cycle of Restoration"
)

// Page Layout Configuration (页面布局配置)
// 所有 Y 坐标使用"页面坐标系"（相对于页面顶部），绘制时减去滚动偏移
const (
	// ContentMaxWidth 是内容栏最大宽度（对应网页 max-w-6xl）
	ContentMaxWidth = 1152.0

	// ContentPaddingX 是内容栏左右内边距
	ContentPaddingX = 24.0

	// HeaderHeight 是顶部吸附导航栏高度
	HeaderHeight = 72.0

	// SectionPaddingY 是每个区块上下内边距（对应网页 py-20）
	SectionPaddingY = 80.0

	// GridGap 是卡片网格间距
	GridGap = 24.0

	// CardPadding 是卡片内边距
	CardPadding = 24.0

	// CardRadius 是卡片圆角半径
	CardRadius = 16.0

	// LogoSize 是导航栏 Logo 边长
	LogoSize = 40.0

	// SigilSize 是卡片右上角徽记边长
	SigilSize = 40.0

	// FooterHeight 是页脚最小高度
	FooterHeight = 120.0
)

// Typography (字号)
const (
	FontSizeHero    = 44.0
	FontSizeTitle   = 30.0
	FontSizeCard    = 22.0
	FontSizeBody    = 15.0
	FontSizeSmall   = 12.0
	LineHeightRatio = 1.6
)

// Scrolling (滚动)
const (
	// WheelScrollStep 是每格滚轮滚动的像素
	WheelScrollStep = 60.0

	// KeyScrollStep 是方向键每帧滚动的像素
	KeyScrollStep = 12.0

	// AnchorScrollSeconds 是点击锚点后平滑滚动的时长
	AnchorScrollSeconds = 0.6
)

// ContentColumn 返回给定窗口宽度下内容栏的 X 起点与宽度
// 内容栏居中，宽度不超过 ContentMaxWidth
func ContentColumn(windowWidth float64) (x, width float64) {
	width = min(windowWidth, ContentMaxWidth) - 2*ContentPaddingX
	if width < 0 {
		width = 0
	}
	x = (windowWidth - width) / 2
	return x, width
}

// GridColumnWidth 返回 n 列网格中每列的宽度
func GridColumnWidth(total float64, n int) float64 {
	if n <= 0 {
		return total
	}
	w := (total - GridGap*float64(n-1)) / float64(n)
	if w < 0 {
		return 0
	}
	return w
}
