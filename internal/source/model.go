package source

// PlayerInfo is the public profile summary of one player.
type PlayerInfo struct {
	UID                  string `json:"uid"`
	Nickname             string `json:"nickname"`
	Level                int    `json:"level"`
	Signature            string `json:"signature,omitempty"`
	WorldLevel           int    `json:"worldLevel"`
	FinishAchievementNum int    `json:"finishAchievementNum,omitempty"`
	TowerFloorIndex      int    `json:"towerFloorIndex,omitempty"`
	TowerLevelIndex      int    `json:"towerLevelIndex,omitempty"`
	TowerStarIndex       int    `json:"towerStarIndex,omitempty"`
	FetterCount          int    `json:"fetterCount,omitempty"`
	IsShowAvatarTalent   bool   `json:"isShowAvatarTalent,omitempty"`
}

// ProfilePicture references the player's avatar image.
type ProfilePicture struct {
	ID       int    `json:"id"`
	IconName string `json:"iconName"`
	URL      string `json:"url"`
}

// NameCard references the banner shown behind the player name.
type NameCard struct {
	ID       int    `json:"id"`
	IconName string `json:"iconName"`
	URL      string `json:"url"`
}

// ShowAvatar is one showcased character.
type ShowAvatar struct {
	AvatarID    int    `json:"avatarId"`
	IconName    string `json:"iconName"`
	URL         string `json:"url"`
	Quality     int    `json:"quality"`
	Level       int    `json:"level"`
	TalentLevel int    `json:"talentLevel,omitempty"`
	Element     string `json:"element,omitempty"`
	WeaponType  string `json:"weaponType,omitempty"`
}

// Record is everything a profile card is rendered from.
type Record struct {
	PlayerInfo     PlayerInfo     `json:"playerInfo"`
	ProfilePicture ProfilePicture `json:"profilePicture"`
	NameCard       NameCard       `json:"nameCard"`
	ShowAvatars    []ShowAvatar   `json:"showAvatars"`
	TTL            int            `json:"ttl,omitempty"`
	LastUpdated    string         `json:"lastUpdated,omitempty"`
}
