package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/doctree/model"
)

// ListType represents the type of list.
type ListType int

const (
	ListTypeUnordered ListType = iota // Bullet list
	ListTypeOrdered                   // Numbered list
)

// NumberingResolver resolves numbering definitions from numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	nums         map[string]*numXML         // numId -> instance
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		nums:         make(map[string]*numXML),
	}

	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for i := range numbering.Nums {
		num := &numbering.Nums[i]
		nr.nums[num.NumID] = num
	}

	return nr
}

// ResolveLevel returns the format info for a given numId and level.
func (nr *NumberingResolver) ResolveLevel(numID string, level int) (listType ListType, bullet string, startAt int) {
	// Default to bullet list
	listType = ListTypeUnordered
	bullet = "•"
	startAt = 1

	num, ok := nr.nums[numID]
	if !ok {
		return
	}

	levelStr := strconv.Itoa(level)
	var lvl *lvlXML
	if abstractNum, ok := nr.abstractNums[num.AbstractNumID.Val]; ok {
		for i := range abstractNum.Levels {
			if abstractNum.Levels[i].ILvl == levelStr {
				lvl = &abstractNum.Levels[i]
				break
			}
		}
	}

	// Instance overrides replace the level or restart its numbering.
	startOverride := ""
	for i := range num.Overrides {
		o := &num.Overrides[i]
		if o.ILvl != levelStr {
			continue
		}
		if o.Lvl != nil {
			lvl = o.Lvl
		}
		if o.StartOverride != nil {
			startOverride = o.StartOverride.Val
		}
	}
	if lvl == nil {
		return
	}

	switch lvl.NumFmt.Val {
	case "bullet":
		bullet = getBulletChar(lvl.LvlText.Val, level)
	case "decimal", "decimalZero", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman", "ordinal", "cardinalText", "ordinalText":
		listType = ListTypeOrdered
		bullet = ""
	}

	start := lvl.Start.Val
	if startOverride != "" {
		start = startOverride
	}
	if s, err := strconv.Atoi(start); err == nil {
		startAt = s
	}
	return
}

// isListParagraph reports whether direct paragraph formatting puts the
// paragraph in a list. numId 0 removes numbering.
func isListParagraph(f *model.ParagraphFormatting) bool {
	return f != nil && f.Numbering != nil && f.Numbering.ID != "" && f.Numbering.ID != "0"
}

// getBulletChar returns the appropriate bullet character for the level.
func getBulletChar(lvlText string, level int) string {
	// Common Word bullet characters (standard Unicode)
	bullets := []string{"•", "○", "■", "□", "▪", "▫", "►", "◦"}

	if lvlText != "" && !strings.Contains(lvlText, "%") {
		// Word often uses Symbol/Wingdings fonts with PUA characters (U+F000-U+F0FF)
		if isRenderableBullet(lvlText) {
			return lvlText
		}
	}

	if level >= 0 && level < len(bullets) {
		return bullets[level]
	}
	return "•"
}

// isRenderableBullet checks if a bullet character will render properly.
// Returns false for Private Use Area characters that require special fonts.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}

// listItem places a numbered paragraph in the open list of the section,
// starting a new List when the numbering instance changes.
func (b *builder) listItem(sec *section, item *model.Node, f *model.ParagraphFormatting) error {
	num := f.Numbering
	listType, bullet, start := b.numbering.ResolveLevel(num.ID, num.Level)

	if sec.list == nil || sec.list.List().NumID != num.ID {
		list := b.newNode(model.TypeList)
		list.SetMeta(model.MetaList, &model.ListInfo{
			NumID:   num.ID,
			Ordered: listType == ListTypeOrdered,
			Start:   start,
		})
		if err := b.attach(sec.parent(), list); err != nil {
			return err
		}
		sec.list = list
	}

	item.SetMeta(model.MetaList, &model.ListInfo{
		NumID:   num.ID,
		Level:   num.Level,
		Ordered: listType == ListTypeOrdered,
		Start:   start,
		Bullet:  bullet,
	})
	return b.attach(sec.list.ID(), item)
}

// ListText returns a plain text rendering of a List node with bullets and
// numbers, indented by level.
func ListText(doc *model.Document, list model.NodeID) string {
	n := doc.Node(list)
	if n == nil || n.Type != model.TypeList {
		return ""
	}
	var sb strings.Builder
	counters := make(map[int]int)
	for i, id := range n.Children() {
		item := doc.Node(id)
		info := item.List()
		if i > 0 {
			sb.WriteString("\n")
		}
		level := 0
		if info != nil {
			level = info.Level
		}
		for j := 0; j < level; j++ {
			sb.WriteString("  ")
		}
		for l := range counters {
			if l > level {
				delete(counters, l)
			}
		}

		switch {
		case info != nil && info.Ordered:
			if _, ok := counters[level]; !ok {
				counters[level] = info.Start
			} else {
				counters[level]++
			}
			sb.WriteString(strconv.Itoa(counters[level]) + ". ")
		case info != nil && info.Bullet != "":
			sb.WriteString(info.Bullet + " ")
		default:
			sb.WriteString("• ")
		}
		sb.WriteString(doc.OwnText(id))
	}
	return sb.String()
}
