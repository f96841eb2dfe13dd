package repository

import (
	"strconv"
	"strings"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards so user search text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// withoutAsset rebuilds a JSONB asset array minus the entry whose public_id
// is $2, keeping the original order.
func withoutAsset(column string) string {
	return `COALESCE((
			SELECT jsonb_agg(elem ORDER BY pos)
			FROM jsonb_array_elements(` + column + `) WITH ORDINALITY AS t(elem, pos)
			WHERE elem->>'public_id' <> $2::text
		), '[]'::jsonb)`
}

func holdsAsset(column string) string {
	return column + ` @> jsonb_build_array(jsonb_build_object('public_id', $2::text))`
}

func jsonOrEmptyObject(raw []byte) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "{}"
	}
	return string(raw)
}
