// Package scoring turns questionnaire answers into behavioral zones.
//
// A QuestionMap assigns each item to one of four categories and marks the
// reverse-coded ones. Transform reduces a respondent's answers to a mean
// score per category, Classify picks the dominant category (or a tied set),
// and a group is read two ways: MeanOfMeans classifies the averaged vector
// while TallyVotes counts individual winners. The two readings can disagree
// and Engine.Analyze reports both.
//
// Nothing in this package performs I/O or returns errors for bad answers.
// Unknown items, out-of-range values and unparseable input are skipped.
package scoring
