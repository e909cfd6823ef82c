package catalog

import "github.com/dmitrijs2005/gymkeeper/internal/client/models"

var plans = []models.Plan{
	{
		ID:       "monthly",
		Name:     "Monthly",
		Price:    "₹2,499",
		Duration: "/month",
		Bucket:   models.BucketMonthly,
		Features: []string{
			"Access to all gym equipment",
			"Locker facility",
			"Steam bath access (2x/month)",
			"General trainer assistance",
		},
	},
	{
		ID:       "quarterly",
		Name:     "Quarterly",
		Price:    "₹6,999",
		Duration: "/3 months",
		Bucket:   models.BucketQuarterly,
		Features: []string{
			"All Monthly benefits",
			"Free diet consultation (1x)",
			"Steam bath access (4x/month)",
			"Guest pass (1x/month)",
		},
	},
	{
		ID:       "annual",
		Name:     "Annual Elite",
		Price:    "₹14,999",
		Duration: "/year",
		Bucket:   models.BucketAnnual,
		Features: []string{
			"All Quarterly benefits",
			"Unlimited Steam & Sauna",
			"Personal Training Session (2x)",
			"Nutrition Plan included",
			"T-Shirt & Shaker Bottle",
			"Freeze membership option",
		},
		Popular: true,
	},
}

var branches = []models.Branch{
	{
		ID:         "1",
		Name:       "Gariahat",
		Slug:       "gariahat",
		Address:    "123, Gariahat Road, Kolkata - 700019",
		Phone:      "+91 9876543210",
		Hours:      "Mon-Sat: 6am - 10pm, Sun: 7am - 8pm",
		Lat:        22.518,
		Lng:        88.364,
		Facilities: []string{"Cardio Zone", "Weight Training", "Steam Bath", "Personal Training"},
		Trainers: []models.Trainer{
			{Name: "Rahul Sharma", Specialty: "Strength & Conditioning"},
			{Name: "Ananya Ghosh", Specialty: "Yoga & Flexibility"},
		},
	},
	{
		ID:         "2",
		Name:       "Park Circus",
		Slug:       "park-circus",
		Address:    "45, Park Circus Avenue, Kolkata - 700017",
		Phone:      "+91 9876543211",
		Hours:      "24x7",
		Lat:        22.538,
		Lng:        88.364,
		Facilities: []string{"CrossFit", "Zumba Studio", "Nutrition Cafe", "Locker Rooms"},
		Trainers: []models.Trainer{
			{Name: "Priya Das", Specialty: "Zumba Instructor"},
			{Name: "Vikram Singh", Specialty: "CrossFit Coach"},
		},
	},
	{
		ID:         "3",
		Name:       "Salt Lake",
		Slug:       "salt-lake",
		Address:    "Block CK, Sector 2, Salt Lake City, Kolkata - 700091",
		Phone:      "+91 9876543212",
		Hours:      "Mon-Sat: 5am - 11pm, Sun: 6am - 9pm",
		Lat:        22.586,
		Lng:        88.417,
		Facilities: []string{"Swimming Pool", "Yoga Studio", "Sauna", "Cardio Theater"},
		Trainers: []models.Trainer{
			{Name: "Amit Roy", Specialty: "Swimming Coach"},
			{Name: "Sneha Mukherjee", Specialty: "Yoga Instructor"},
		},
	},
	{
		ID:         "4",
		Name:       "Ballygunge",
		Slug:       "ballygunge",
		Address:    "78, Ballygunge Circular Road, Kolkata - 700019",
		Phone:      "+91 9876543213",
		Hours:      "Mon-Sun: 6am - 10pm",
		Lat:        22.528,
		Lng:        88.361,
		Facilities: []string{"Functional Training", "Spin Studio", "Diet Counseling"},
		Trainers:   []models.Trainer{{Name: "Kunal Ghosh", Specialty: "Functional Training"}},
	},
	{
		ID:         "5",
		Name:       "New Town",
		Slug:       "new-town",
		Address:    "Action Area 1, New Town, Kolkata - 700156",
		Phone:      "+91 9876543214",
		Hours:      "24x7",
		Lat:        22.572,
		Lng:        88.475,
		Facilities: []string{"CrossFit", "Mixed Martial Arts", "Physiotherapy"},
		Trainers:   []models.Trainer{{Name: "Rohan Das", Specialty: "MMA Coach"}},
	},
	{
		ID:         "6",
		Name:       "Behala",
		Slug:       "behala",
		Address:    "34, Diamond Harbour Road, Behala, Kolkata - 700034",
		Phone:      "+91 9876543215",
		Hours:      "Mon-Sat: 6am - 10pm, Sun: 7am - 1pm",
		Lat:        22.498,
		Lng:        88.315,
		Facilities: []string{"Weight Training", "Group Classes", "Locker Rooms"},
		Trainers:   []models.Trainer{{Name: "Sujata Sen", Specialty: "Group Fitness"}},
	},
}
