// Package intake implements the schema-driven form engine behind project
// creation: a three-stage workflow (path choice, template selection,
// elaboration) over an arbitrary server-supplied template schema, with a
// strict identifier binding policy that keeps the three canonical project
// attributes separate from template-authored answers, and normalized
// submission assembly for faithful display-time replay.
package intake
