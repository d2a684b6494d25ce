package domain

import (
	"fmt"
	"strings"
	"time"
)

// Composer renders rarest-species posts for a region.
type Composer struct {
	Region Region
}

// NewComposer creates a Composer for the given region.
func NewComposer(region Region) Composer {
	return Composer{Region: region}
}

// Compose renders the posts for the rarest set of date: a single post for one
// taxon, or a header followed by one post per taxon for ties. Returns nil for
// an empty set.
func (c Composer) Compose(date time.Time, rarest []RankedTaxon) []Post {
	switch len(rarest) {
	case 0:
		return nil
	case 1:
		return []Post{c.Single(date, rarest[0])}
	default:
		return c.Thread(date, rarest)
	}
}

// Single renders the post for a date whose rarest set has exactly one taxon.
func (c Composer) Single(date time.Time, taxon RankedTaxon) Post {
	var b strings.Builder
	fmt.Fprintf(&b, `<p><a href="%s">Registro del día en %s</a><br>`, taxon.URL, c.Region.Flag)
	fmt.Fprintf(&b, "Esta fue la especie con menos observaciones registradas en %s el %s (%s):<br><br>",
		c.Region.Name, PastWeekday(date), ISODate(date))
	b.WriteString(NameLine(taxon.Observation))
	b.WriteString("<br><br>")
	b.WriteString("<blockquote>")
	b.WriteString(c.ObservationInfo(taxon.Observation))
	b.WriteString("</blockquote><br>")
	b.WriteString(SpeciesStatus(c.Region, taxon))
	b.WriteString("</p>")

	return c.post(b.String(), taxon.Observation)
}

// Thread renders a header listing every tied species followed by one post per
// taxon. Replies are linked at publish time.
func (c Composer) Thread(date time.Time, rarest []RankedTaxon) []Post {
	total := len(rarest) + 1
	posts := make([]Post, 0, total)

	var b strings.Builder
	fmt.Fprintf(&b, "<p><b>Registros del día en %s</b><br><br>", c.Region.Flag)
	fmt.Fprintf(&b, "Estas fueron las especies con menos observaciones registradas en %s el %s (%s):<br><ul>",
		c.Region.Name, PastWeekday(date), ISODate(date))
	for _, taxon := range rarest {
		b.WriteString("<li>")
		b.WriteString(NameLine(taxon.Observation))
		b.WriteString("</li>")
	}
	b.WriteString("</ul><br>")
	b.WriteString(ThreadMarker(1, total))
	b.WriteString("</p>")
	posts = append(posts, Post{Body: b.String()})

	for k, taxon := range rarest {
		posts = append(posts, c.ThreadEntry(taxon, k+2, total))
	}
	return posts
}

// ThreadEntry renders the post for one taxon at position pos of a thread of total posts.
func (c Composer) ThreadEntry(taxon RankedTaxon, pos, total int) Post {
	var b strings.Builder
	fmt.Fprintf(&b, `<p><a href="%s">`, taxon.URL)
	b.WriteString(NameLine(taxon.Observation))
	b.WriteString("</a><br>")
	b.WriteString("<blockquote>")
	b.WriteString(c.ObservationInfo(taxon.Observation))
	b.WriteString("</blockquote>")
	b.WriteString(SpeciesStatus(c.Region, taxon))
	b.WriteString("<br><br>")
	b.WriteString(ThreadMarker(pos, total))
	b.WriteString("</p>")

	return c.post(b.String(), taxon.Observation)
}

// ObservationInfo renders who made the observation and when.
func (c Composer) ObservationInfo(o Observation) string {
	return fmt.Sprintf(`Observada por <a href="%s">%s</a> el %s.`,
		c.Region.ProfileURL(o.Username), o.Username, LongDate(o.ObservedAt))
}

func (c Composer) post(body string, o Observation) Post {
	return Post{
		Body:             body,
		PhotoURL:         o.PhotoURL,
		PhotoDescription: PlainName(o),
	}
}

// ThreadMarker renders the "🧵 pos/total" thread position.
func ThreadMarker(pos, total int) string {
	return fmt.Sprintf("🧵 %d/%d", pos, total)
}

// NameLine renders the bold species line: common and scientific name followed
// by the iconic group and its emoji.
func NameLine(o Observation) string {
	var b strings.Builder
	b.WriteString("<b>")
	if o.CommonName != "" {
		fmt.Fprintf(&b, "%s (<i>%s</i>), ", o.CommonName, o.TaxonName)
	} else {
		fmt.Fprintf(&b, "<i>%s</i>, ", o.TaxonName)
	}
	b.WriteString(o.IconicTaxon + " " + IconicEmoji(o.IconicTaxon) + ".</b>")
	return b.String()
}

// PlainName returns the species name without markup, used as media alt text.
func PlainName(o Observation) string {
	if o.CommonName != "" {
		return o.CommonName + " (" + o.TaxonName + ")"
	}
	return o.TaxonName
}

// SpeciesStatus renders the narrative paragraph about establishment status,
// threat status and how often the taxon has been recorded.
func SpeciesStatus(region Region, t RankedTaxon) string {
	var b strings.Builder
	b.WriteString("Esta especie ")

	leadIn := t.Native || t.Introduced
	switch {
	case t.Native:
		b.WriteString("es nativa de " + region.Name)
	case t.Introduced:
		b.WriteString("fue introducida en " + region.Name)
	}

	switch {
	case t.Threatened:
		if leadIn {
			b.WriteString(", ")
		}
		b.WriteString("está amenazada y ")
	case leadIn:
		b.WriteString(" y ")
	}

	switch {
	case t.CountPlace == 1 && t.Introduced:
		b.WriteString("hasta ahora no tenía registros en el país")
		switch {
		case t.CountWorld == 0:
			b.WriteString(" (¡ni en el mundo! 😲)")
		case t.CountWorld >= 1:
			fmt.Fprintf(&b, " (aunque se registró %s en el resto del mundo)", Times(t.CountWorld))
		}
	case t.CountPlace == 1:
		b.WriteString("<b>¡es la primera vez que se registra en el país")
		switch {
		case t.CountWorld == 0:
			b.WriteString(" y en el mundo!</b>")
		case t.CountWorld >= 1:
			fmt.Fprintf(&b, "</b> (aunque se registró %s en el resto del mundo)!", Times(t.CountWorld))
		default:
			b.WriteString("!</b>")
		}
	default:
		fmt.Fprintf(&b, "ha sido registrada %s en el país", Times(t.CountPlace))
		if t.CountWorld > 0 {
			fmt.Fprintf(&b, " y %s más en el resto del mundo.", Times(t.CountWorld))
		} else {
			fmt.Fprintf(&b, " y no tiene registros afuera de %s.", region.Name)
		}
	}

	return b.String()
}
