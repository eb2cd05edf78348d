package items

func POST() {}
