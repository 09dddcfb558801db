package nettest

import "fmt"

func errDuplicateSend(label string) error {
	return fmt.Errorf("nettest: duplicate send/publish for label %q", label)
}

func errAborted(label string) error {
	return fmt.Errorf("nettest: network closed while awaiting label %q", label)
}
