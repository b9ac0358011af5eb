package compare

import "github.com/ThomasJButler/iAI-Assessment/internal/mapping"

// kappaForTheme computes Cohen's Kappa for one theme across the corpus,
// treating each mapping as a rater answering present/absent per response.
//
// With n11/n10/n01/n00 the contingency counts over N responses:
//
//	po = (n11 + n00) / N
//	pe = p(x=1)p(y=1) + p(x=0)p(y=0)
//	kappa = (po - pe) / (1 - pe)
//
// When pe saturates to 1 both marginals are constant and identical, so there
// is no disagreement to explain away: the 0/0 form resolves to 1.0 when
// po == 1. The po < 1 guard below is unreachable for saturated marginals but
// keeps the division safe; it resolves to 0.
func kappaForTheme(p *mapping.Pair, theme string) (kappa float64, degenerate bool) {
	n := p.Len()
	if n == 0 {
		return 1.0, true
	}

	var n11, n10, n01, n00 int
	for i := 0; i < n; i++ {
		x := p.First.Records[i].Themes.Has(theme)
		y := p.Second.Records[i].Themes.Has(theme)
		switch {
		case x && y:
			n11++
		case x && !y:
			n10++
		case !x && y:
			n01++
		default:
			n00++
		}
	}

	// Integer arithmetic for the saturation test avoids float equality on pe.
	x1 := n11 + n10 // responses where mapping1 assigns the theme
	y1 := n11 + n01
	x0 := n - x1
	y0 := n - y1

	peNum := x1*y1 + x0*y0 // pe == peNum / n²
	if peNum == n*n {
		if n10 == 0 && n01 == 0 {
			return 1.0, true
		}
		return 0.0, true
	}

	nf := float64(n)
	po := float64(n11+n00) / nf
	pe := float64(peNum) / (nf * nf)
	return (po - pe) / (1 - pe), false
}
