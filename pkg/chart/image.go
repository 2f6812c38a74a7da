package chart

import "strings"

// ResolveImage returns the fully qualified image reference for a component,
// in the form "registry/repository/segment:tag". Segments without a resolved
// value degrade to shorter forms ("repository/segment:tag", database
// "repository:tag") instead of failing; this is pure string composition with
// no reachability or pullability checks.
//
// Precedence is expressed as ordered candidate lists, first-match-wins:
//
//	registry:   global > component > shared        (database: global > database)
//	repository: shared only                        (database: its own, complete)
//	tag:        component > shared > appVersion    (database: its own only)
//	segment:    image name > component name        (database: none)
//
// The database tag deliberately has no fallback: a missing tag resolves to
// "repository:" with a dangling colon rather than borrowing the shared tag or
// the app version.
func ResolveImage(component Component, chart ChartIdentity, values *Values) string {
	if component == ComponentDatabase {
		db := values.Database
		return assembleImage(
			firstNonEmpty(values.Global.ImageRegistry, db.Image.Registry),
			db.Image.Repository,
			"",
			db.Image.Tag,
		)
	}

	c := values.Component(component)
	return assembleImage(
		firstNonEmpty(values.Global.ImageRegistry, c.Image.Registry, values.Image.Registry),
		values.Image.Repository,
		firstNonEmpty(c.Image.Name, c.Name),
		firstNonEmpty(c.Image.Tag, values.Image.Tag, chart.AppVersion),
	)
}

// assembleImage joins the resolved segments. Registry and segment are
// optional; the tag separator is always emitted so that an unresolved tag
// surfaces as a dangling ":" instead of silently vanishing.
func assembleImage(registry, repository, segment, tag string) string {
	var b strings.Builder
	if registry != "" {
		b.WriteString(registry)
		b.WriteByte('/')
	}
	b.WriteString(repository)
	if segment != "" {
		b.WriteByte('/')
		b.WriteString(segment)
	}
	b.WriteByte(':')
	b.WriteString(tag)
	return b.String()
}
