package preview

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlockKind is the kind of a display block
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockImage
	BlockTableRow
	BlockCode
	BlockQuote
	BlockRule
)

// Block is one line-level element of a rendered document
type Block struct {
	Kind BlockKind
	Text string
	// Level is the heading level or list nesting depth
	Level int
	// Src is the (possibly proxied) image source
	Src string
	// Cells holds table row cells
	Cells []string
	// Header marks a table header row
	Header bool
}

func flatten(root *goquery.Selection) []Block {
	var blocks []Block
	root.Children().Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, blocksFor(s, 0)...)
	})
	return blocks
}

func blocksFor(s *goquery.Selection, depth int) []Block {
	tag := goquery.NodeName(s)
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return []Block{{Kind: BlockHeading, Text: collapse(s.Text()), Level: int(tag[1] - '0')}}
	case "ul", "ol":
		var out []Block
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			out = append(out, listItem(li, depth)...)
		})
		return out
	case "pre":
		return []Block{{Kind: BlockCode, Text: strings.TrimRight(s.Text(), "\n")}}
	case "table":
		var out []Block
		s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			header := false
			tr.Children().Each(func(_ int, cell *goquery.Selection) {
				if goquery.NodeName(cell) == "th" {
					header = true
				}
				cells = append(cells, cellText(cell))
			})
			out = append(out, Block{Kind: BlockTableRow, Cells: cells, Text: strings.Join(cells, " | "), Header: header})
		})
		return out
	case "blockquote":
		return []Block{{Kind: BlockQuote, Text: collapse(s.Text())}}
	case "hr":
		return []Block{{Kind: BlockRule}}
	case "img":
		return []Block{imageBlock(s)}
	case "div", "section", "details", "center", "picture":
		var out []Block
		s.Children().Each(func(_ int, c *goquery.Selection) {
			out = append(out, blocksFor(c, depth)...)
		})
		if len(out) == 0 {
			if text := collapse(s.Text()); text != "" {
				out = append(out, Block{Kind: BlockParagraph, Text: text})
			}
		}
		return out
	default:
		return paragraph(s)
	}
}

// paragraph emits the text of s followed by its images, so a row of badges
// stays visible even without surrounding text
func paragraph(s *goquery.Selection) []Block {
	var out []Block
	if text := collapse(s.Text()); text != "" {
		out = append(out, Block{Kind: BlockParagraph, Text: text})
	}
	s.Find("img").Each(func(_ int, img *goquery.Selection) {
		out = append(out, imageBlock(img))
	})
	return out
}

func listItem(li *goquery.Selection, depth int) []Block {
	nested := li.ChildrenFiltered("ul, ol")
	own := li.Clone()
	own.ChildrenFiltered("ul, ol").Remove()

	out := []Block{{Kind: BlockListItem, Text: collapse(own.Text()), Level: depth}}
	nested.Each(func(_ int, list *goquery.Selection) {
		out = append(out, blocksFor(list, depth+1)...)
	})
	return out
}

func imageBlock(s *goquery.Selection) Block {
	src, _ := s.Attr("src")
	alt, _ := s.Attr("alt")
	return Block{Kind: BlockImage, Text: strings.TrimSpace(alt), Src: src}
}

func cellText(cell *goquery.Selection) string {
	if text := collapse(cell.Text()); text != "" {
		return text
	}
	// cells made only of images (stat cards side by side)
	var alts []string
	cell.Find("img").Each(func(_ int, img *goquery.Selection) {
		if alt, _ := img.Attr("alt"); alt != "" {
			alts = append(alts, "["+alt+"]")
		}
	})
	return strings.Join(alts, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
