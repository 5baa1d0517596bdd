package models

// PostPage is one page of a post listing.
type PostPage struct {
	Items   []*Post
	Page    int
	PerPage int
	Total   int
}

// Pages returns the total number of pages; an empty listing has none.
func (p *PostPage) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p *PostPage) HasPrev() bool { return p.Page > 1 }

func (p *PostPage) HasNext() bool { return p.Page < p.Pages() }

func (p *PostPage) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

func (p *PostPage) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// IterPages lists the page numbers a pager should show: two at each edge,
// two before the current page and four after it. A zero marks a gap.
func (p *PostPage) IterPages() []int {
	const (
		leftEdge     = 2
		leftCurrent  = 2
		rightCurrent = 5
		rightEdge    = 2
	)
	pages := p.Pages()
	var out []int
	last := 0
	for num := 1; num <= pages; num++ {
		if num <= leftEdge ||
			(num > p.Page-leftCurrent-1 && num < p.Page+rightCurrent) ||
			num > pages-rightEdge {
			if last+1 != num {
				out = append(out, 0)
			}
			out = append(out, num)
			last = num
		}
	}
	return out
}
