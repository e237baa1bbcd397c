package tags

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// Write replaces any tag on dest with an ID3v2.4 tag holding exactly the
// frames in set.
func Write(dest string, set FrameSet) error {
	tag, err := id3v2.Open(dest, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("open %s for tagging: %w", dest, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(4)
	for _, frame := range set.frames {
		switch frame.ID {
		case FrameComment:
			tag.AddCommentFrame(frame.framer().(id3v2.CommentFrame))
		case FrameUserText:
			tag.AddUserDefinedTextFrame(frame.framer().(id3v2.UserDefinedTextFrame))
		default:
			tag.AddTextFrame(frame.ID, frame.Encoding(), frame.Text())
		}
	}
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag %s: %w", dest, err)
	}
	return nil
}
