package scenes

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/restoration/pkg/game"
	"github.com/gonewx/restoration/pkg/utils"
)

// pageFonts 把行内样式映射到资源管理器中的 Go 字体，
// 同时作为布局的 Measurer 和绘制时的字体来源
type pageFonts struct {
	rm *game.ResourceManager
}

func fontStyle(style utils.TextStyle) game.FontStyle {
	switch style {
	case utils.StyleBold:
		return game.FontBold
	case utils.StyleItalic:
		return game.FontItalic
	}
	return game.FontRegular
}

// Face 返回字体，加载失败时返回 nil（该段文本不绘制）
func (f pageFonts) Face(style utils.TextStyle, size float64) text.Face {
	face, err := f.rm.LoadFont(fontStyle(style), size)
	if err != nil {
		return nil
	}
	return face
}

func (f pageFonts) Measure(s string, style utils.TextStyle, size float64) float64 {
	return measureFace(f.Face(style, size), s)
}
