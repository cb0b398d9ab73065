// Package score pulls participant scores out of free-form evaluation text
// and renders the battle scoreboard.
//
// Extraction is best-effort: an ordered list of independent pattern
// strategies runs over the whole text and every match is folded into a
// Table that keeps the highest score seen per name. Only scores in
// [MinScore, MaxScore] are kept. When no strategy matches, a line-by-line
// fallback pairs the first 3-4 digit number on a line with the first word
// before it. Extract never fails; it may return an empty table.
package score
