package notify

import (
	"fmt"

	"badbaado/internal/user"
)

// Message bodies mirror the WhatsApp templates of the production app
// (Somali, with the blood type rendered in its human form).

func donorMatchBody(req RequestInfo) string {
	return fmt.Sprintf(`*BAAQ DEG DEG AH - DHIIG BAA LOO BAAHAN YAHAY!*

*Nooca Dhiigga:* %s
*Goobta:* %s
*Cusbitaalka:* %s
*Degdegga:* %s

*Haddii aad diyaar u tahay inaad dhiig bixiso, fadlan ka jawaab codsigan.*

- Badbaado Blood Donation App`,
		req.BloodType.Human(), req.Location, req.Hospital, req.Urgency)
}

func approvalBody(req RequestInfo) string {
	return fmt.Sprintf(`*CODSIGAAGA WAA LA ANSIXIYAY!*

*Nooca Dhiigga:* %s
*Goobta:* %s

*Samafalayaasha ku habboon waa la ogeysiiyay. Waxaad heli doontaa jawaabahooda.*

- Badbaado Blood Donation App`,
		req.BloodType.Human(), req.Location)
}

func donorResponseBody(donor *user.User, req RequestInfo) string {
	return fmt.Sprintf(`*SAMAFALE DHIIGGA SHUBAYA AYAA KU AQBALAY!*

*Macluumaadka Dhiig Shubaha:*
*Magaca:* %s
*Taleefanka:* %s
*Nooca Dhiigga:* %s
*Goobta:* %s

*Fadlan la xiriir samafalaha si aad u hesho ballanta dhiigga.*

*Mahadsanid!*
- Badbaado Blood Donation App`,
		donor.FullName, donor.Phone, donor.BloodType.Human(), donor.Location)
}

func newRequestBody(req RequestInfo) string {
	return fmt.Sprintf(`*CODSI CUSUB OO DHIIG AH*

*Magaca:* %s
*Nooca Dhiigga:* %s
*Goobta:* %s
*Cusbitaalka:* %s
*Degdegga:* %s

*Fadlan eeg codsiga oo go'aan ka gaar.*`,
		req.FullName, req.BloodType.Human(), req.Location, req.Hospital, req.Urgency)
}
