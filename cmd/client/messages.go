package main

// notePhrases are posted as notes by the smoke run. Short ones are
// expected to be rejected by the server.
func notePhrases() []string {
	return []string{
		"hello",
		"how are you?",
		"how does going?",
		"okey",
		"stay in touch",
		"nice to meet you",
		"good morning",
		"afternoon!",
		"hi, fellas!",
		"hello, people!",
	}
}
