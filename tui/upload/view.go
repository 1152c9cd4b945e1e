package upload

import (
	"strings"

	"github.com/CrestNiraj12/terminalgallery/tui/common"
)

var labels = [fieldCount]string{
	pathField:        "Image file",
	descriptionField: "Description",
	uploaderField:    "Uploaded by",
}

// View renders the upload form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("terminalgallery"))
	b.WriteString("  Upload an image\n\n")

	for i := range m.inputs {
		label := common.LabelStyle
		if field(i) == m.focus {
			label = common.FocusedLabelStyle
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Uploading…")
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render("Error: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(common.StatusBarStyle.Render("tab: next field • enter: upload • esc: cancel"))
	return b.String()
}
