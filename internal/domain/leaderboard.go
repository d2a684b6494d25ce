package domain

import (
	"fmt"
	"strings"
	"time"
)

// LeaderboardSize is the number of identifiers shown in a leaderboard.
const LeaderboardSize = 5

var medals = [LeaderboardSize]string{"🥇", "🥈", "🥉", "", ""}

// Leaderboard renders the top identifiers of an iconic taxon group between from and to.
// Entries beyond LeaderboardSize are ignored; the API order is kept.
func (c Composer) Leaderboard(iconicTaxonID int64, from, to time.Time, top []Identifier) Post {
	group := IconicTaxonName(iconicTaxonID)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Top identificadores %s para <b>%s</b> %s:</p><ol>",
		periodPhrase(from, to), IconicCommonName(group), IconicEmoji(group))

	for i, id := range top {
		if i == LeaderboardSize {
			break
		}
		b.WriteString("<li>" + medals[i])
		if id.Name != "" {
			fmt.Fprintf(&b, `%s <a href="%s">(%s)`, id.Name, c.Region.ProfileURL(id.Login), id.Login)
		} else {
			fmt.Fprintf(&b, `<a href="%s">%s`, c.Region.ProfileURL(id.Login), id.Login)
		}
		fmt.Fprintf(&b, "</a> %d %s.</li>", id.Count, Plural(id.Count, "identificación", "identificaciones"))
	}
	b.WriteString("</ol>")

	return Post{Body: b.String()}
}

// periodPhrase describes the leaderboard range: the last week for ranges of up
// to seven days, explicit dates otherwise.
func periodPhrase(from, to time.Time) string {
	if to.Sub(from) <= 7*24*time.Hour {
		return "de la última semana"
	}
	return fmt.Sprintf("entre el %s y el %s", ISODate(from), ISODate(to))
}
