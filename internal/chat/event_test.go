package chat

import (
	"testing"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

func TestLocationString(t *testing.T) {
	loc := Location{Lat: 41.311081, Lon: 69.240562}
	if got := loc.String(); got != "geo:41.311081,69.240562" {
		t.Fatalf("unexpected geo uri %q", got)
	}
}

func TestConstructorsSetKind(t *testing.T) {
	if ev := MediaEvent(1, "file-1", enums.MediaKindFile); ev.Kind != enums.EventKindMedia || ev.Media.Kind != enums.MediaKindFile {
		t.Fatalf("unexpected media event %+v", ev)
	}
	if ev := ButtonEvent(2, "back"); ev.Kind != enums.EventKindButton || ev.ChatID != 2 {
		t.Fatalf("unexpected button event %+v", ev)
	}
}

func TestEffectBuildersDoNotAlias(t *testing.T) {
	base := SendText(5, "hi")
	withButtons := base.WithButtons(Row(Button{Label: "A", Payload: "a"}))
	if base.Buttons != nil {
		t.Fatalf("builder must not mutate the receiver")
	}
	if len(withButtons.Buttons) != 1 || withButtons.Buttons[0][0].Payload != "a" {
		t.Fatalf("unexpected buttons %+v", withButtons.Buttons)
	}
	if !base.WithoutMenu().RemoveMenu {
		t.Fatalf("expected RemoveMenu")
	}
}
