// Package qc implements the rule-driven execution engine that applies
// batteries of quality-control checks to observation tables.
//
// A battery is a Config: an ordered list of CheckSpec entries naming a
// registered check function, binding its parameters to table columns, and
// supplying literal or preprocessed arguments. The engine validates every
// entry against the registry's declared metadata before any check runs, then
// executes the battery group by group with a row mask that can short-circuit
// later checks depending on the configured return method.
//
// Results come back as a FlagMatrix: one four-valued Flag per row per check,
// with check columns in battery declaration order.
package qc
