// Package gate implements the conversational turn controller: the interpreter
// of yes/no/cancel confirmation gates raised on previous turns. Given the raw
// user utterance and the conversation's turn state it decides whether the
// utterance answers an outstanding gate and resumes or aborts the interrupted
// flow accordingly, guaranteeing exactly-once consumption of a confirmation
// and no resurrection of consumed gates.
//
// The package also carries the protocol helpers owning collaborators use to
// raise gates (AskConfirmYesNo) and to collect decisions (Consume).
package gate
