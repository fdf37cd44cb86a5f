package domain

// SeedPlayers is the roster written on first access.
func SeedPlayers() []Player {
	return []Player{}
}

// DefaultQuestions is the shipped question bank: five questions per stage.
func DefaultQuestions() []Question {
	at := func(h, m int) ClockTime { return ClockTime{Hour: h, Minute: m} }

	return []Question{
		// Stage 1: analog clock.
		{
			ID: "s1q1", StageID: 1, Type: TypeClockAdjust,
			Text:    "Bé hãy xoay đồng hồ đến 3 giờ 15 phút",
			Time:    at(3, 15),
			Payload: ClockAdjustPayload{Target: at(3, 15)},
			Hint:    "Kim ngắn màu đỏ chỉ số 3, kim dài màu xanh dương chỉ số 3 bé nhé!",
		},
		{
			ID: "s1q2", StageID: 1, Type: TypeClockAdjust,
			Text:    "Bé hãy xoay đồng hồ đến 4 giờ 30 phút",
			Time:    at(4, 30),
			Payload: ClockAdjustPayload{Target: at(4, 30)},
			Hint:    "Kim ngắn chỉ số 4, kim dài chỉ số 6 nha!",
		},
		{
			ID: "s1q3", StageID: 1, Type: TypeSelect,
			Text: "Đồng hồ này chỉ mấy giờ?",
			Time: at(7, 15),
			Payload: TextChoicePayload{
				Options: []string{"7 giờ 15 phút", "7 giờ 30 phút", "8 giờ 15 phút"},
				Answer:  "7 giờ 15 phút",
			},
			Hint: "Kim dài ở số 3 là 15 phút đó!",
		},
		{
			ID: "s1q4", StageID: 1, Type: TypeSelect,
			Text:    "Đồng hồ nào chỉ 6 giờ 30 phút?",
			Time:    at(6, 30),
			Payload: ClockChoicePayload{Options: []ClockTime{at(6, 30), at(6, 15), at(12, 30)}, Answer: 0},
			Hint:    "Tìm đồng hồ có kim dài chỉ vào số 6 nào!",
		},
		{
			ID: "s1q5", StageID: 1, Type: TypeSelect,
			Text: "Đồng hồ này là 2 giờ 15 phút hay 2 giờ 30 phút?",
			Time: at(2, 15),
			Payload: TextChoicePayload{
				Options: []string{"2 giờ 15 phút", "2 giờ 30 phút"},
				Answer:  "2 giờ 15 phút",
			},
			Hint: "Kim dài đang ở số 3 đấy bé!",
		},

		// Stage 2: digital clock.
		{
			ID: "s2q1", StageID: 2, Type: TypeSelect,
			Text:    `Thẻ giờ đồng hồ điện tử: "07:15"`,
			Time:    at(7, 15),
			Payload: ClockChoicePayload{Options: []ClockTime{at(7, 15), at(7, 30), at(5, 15)}, Answer: 0},
			Hint:    "Chọn đồng hồ kim tương ứng với 07:15 nhé!",
		},
		{
			ID: "s2q2", StageID: 2, Type: TypeSelect,
			Text:    `Thẻ giờ đồng hồ điện tử: "09:30"`,
			Time:    at(9, 30),
			Payload: ClockChoicePayload{Options: []ClockTime{at(9, 30), at(9, 15), at(10, 30)}, Answer: 0},
			Hint:    "Nhìn số 30 ở cuối nhé!",
		},
		{
			ID: "s2q3", StageID: 2, Type: TypeSelect,
			Text:    `Thẻ giờ đồng hồ điện tử: "04:15"`,
			Time:    at(4, 15),
			Payload: ClockChoicePayload{Options: []ClockTime{at(4, 15), at(4, 30), at(1, 15)}, Answer: 0},
			Hint:    "Tìm đồng hồ kim chỉ 4 giờ 15 phút nào!",
		},
		{
			ID: "s2q4", StageID: 2, Type: TypeSelect,
			Text:    `Thẻ giờ đồng hồ điện tử: "06:30"`,
			Time:    at(6, 30),
			Payload: ClockChoicePayload{Options: []ClockTime{at(6, 30), at(6, 15), at(3, 30)}, Answer: 0},
			Hint:    "Tìm đồng hồ kim chỉ 6 giờ 30 phút nào!",
		},
		{
			ID: "s2q5", StageID: 2, Type: TypeSelect,
			Text:    `Thẻ giờ đồng hồ điện tử: "08:30"`,
			Time:    at(8, 30),
			Payload: ClockChoicePayload{Options: []ClockTime{at(8, 30), at(8, 15), at(10, 30)}, Answer: 0},
			Hint:    "Chọn đồng hồ kim 08:30 bé ơi!",
		},

		// Stage 3: applied.
		{
			ID: "s3q1", StageID: 3, Type: TypeMatch,
			Text: "Bé hãy nối đồng hồ kim với đồng hồ số đúng nhé!",
			Time: at(12, 0),
			Payload: MatchPayload{
				Nodes: []MatchNode{
					{ID: "left1", Side: SideAnalog, Time: at(5, 15), PairID: "right1"},
					{ID: "left2", Side: SideAnalog, Time: at(10, 30), PairID: "right2"},
					{ID: "left3", Side: SideAnalog, Time: at(1, 15), PairID: "right3"},
					{ID: "right1", Side: SideDigital, Text: "05:15", PairID: "left1"},
					{ID: "right2", Side: SideDigital, Text: "10:30", PairID: "left2"},
					{ID: "right3", Side: SideDigital, Text: "01:15", PairID: "left3"},
				},
				Pairs: 3,
			},
			Hint: "Bé hãy nối từng cặp đồng hồ kim và số giống nhau nào!",
		},
		{
			ID: "s3q2", StageID: 3, Type: TypeClockAdjust,
			Text:    "Đồng hồ số là 10:30 – bé hãy xoay kim cho đúng",
			Time:    at(10, 30),
			Payload: ClockAdjustPayload{Target: at(10, 30)},
			Hint:    "Xoay kim ngắn đến số 10 và kim dài đến số 6 nhé!",
		},
		{
			ID: "s3q3", StageID: 3, Type: TypeSelect,
			Text: "Đồng hồ kim này chỉ mấy giờ?",
			Time: at(11, 30),
			Payload: TextChoicePayload{
				Options: []string{"11 giờ 30 phút", "11 giờ 15 phút", "12 giờ 30 phút"},
				Answer:  "11 giờ 30 phút",
			},
			Hint: "Kim ngắn chỉ 11, kim dài chỉ 6!",
		},
		{
			ID: "s3q4", StageID: 3, Type: TypeActivity,
			Text:     "7 giờ 30 phút, bé thường làm gì?",
			Time:     at(7, 30),
			ImageURL: "https://images.unsplash.com/photo-1588072432836-e10032774350?auto=format&fit=crop&w=800&q=80",
			Payload: TextChoicePayload{
				Options: []string{"Ăn sáng và đi học", "Đi ngủ"},
				Answer:  "Ăn sáng và đi học",
			},
			Hint: "Buổi sáng thức dậy chúng mình làm gì nhỉ?",
		},
		{
			ID: "s3q5", StageID: 3, Type: TypeActivity,
			Text:     "8 giờ 15 phút, bé đang chuẩn bị làm gì?",
			Time:     at(8, 15),
			ImageURL: "https://images.unsplash.com/photo-1503676260728-1c00da094a0b?auto=format&fit=crop&w=800&q=80",
			Payload: TextChoicePayload{
				Options: []string{"Học bài cùng cô và bạn", "Ăn tối"},
				Answer:  "Học bài cùng cô và bạn",
			},
			Hint: "Giờ này bé đang ở trong lớp học đấy!",
		},
	}
}
