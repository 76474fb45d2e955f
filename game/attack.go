package game

// lineAttack is indexed by the number of lines cleared at once.
var lineAttack = [5]int{0, 0, 1, 2, 4}

// comboAttack is indexed by combo count minus one; the last entry repeats.
var comboAttack = [...]int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 4, 5}

const (
	b2bBonus          = 1
	perfectClearBonus = 10
)

// ComboAttack returns the bonus lines for a combo of the given length.
func ComboAttack(combo int) int {
	if combo <= 0 {
		return 0
	}
	if combo > len(comboAttack) {
		combo = len(comboAttack)
	}
	return comboAttack[combo-1]
}

// after returns the props following a placement that cleared `lines` rows,
// `ds` of which were garbage.
func (p Props) after(lines, ds int, perfectClear bool) Props {
	n := p
	n.Atk = 0
	n.DS = ds
	n.SumDS += ds
	if lines == 0 {
		n.Combo = 0
		return n
	}
	if lines > 4 {
		lines = 4
	}
	atk := lineAttack[lines]
	if lines == 4 {
		if p.B2B > 0 {
			atk += b2bBonus
		}
		n.B2B = p.B2B + 1
	} else {
		n.B2B = 0
	}
	n.Combo = p.Combo + 1
	atk += ComboAttack(n.Combo)
	if perfectClear {
		atk += perfectClearBonus
	}
	n.Atk = atk
	n.SumAtk += atk
	n.Lines += lines
	return n
}
